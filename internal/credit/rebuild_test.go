package credit

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
)

func payMonths(t *testing.T, schedule []domain.ScheduleItem, indexes ...int) []domain.ScheduleItem {
	t.Helper()
	var err error
	for _, i := range indexes {
		schedule, err = ApplyPayment(schedule, i, optional.Of(dec("9999.99")), today.AddDays(i))
		require.NoError(t, err)
	}
	return schedule
}

func TestRebuildAfterChange_PreservesHistory(t *testing.T) {
	loan, schedule := scenarioLoan()
	schedule = payMonths(t, schedule, 0, 1, 2)

	rebuilt, err := RebuildAfterChange(loan, schedule, domain.LoanParams{AnnualRate: optional.Of(dec("6"))})
	require.NoError(t, err)
	require.Len(t, rebuilt, 12)

	for i := 0; i < 3; i++ {
		assert.True(t, rebuilt[i].Paid)
		assert.Equal(t, schedule[i].PaidAmount, rebuilt[i].PaidAmount)
		assert.Equal(t, schedule[i].PaidAt, rebuilt[i].PaidAt)
	}
	for i := 3; i < 12; i++ {
		assert.False(t, rebuilt[i].Paid)
	}

	// freshly computed parts at the new rate
	assertMoney(t, "600.00", rebuilt[0].InterestPart)
	assert.False(t, rebuilt[0].PlannedPayment.Equal(schedule[0].PlannedPayment))

	// input untouched
	assertMoney(t, "1200.00", schedule[0].InterestPart)
}

func TestRebuildAfterChange_ZeroRatePatchApplies(t *testing.T) {
	loan, schedule := scenarioLoan()

	rebuilt, err := RebuildAfterChange(loan, schedule, domain.LoanParams{AnnualRate: optional.Of(decimal.Zero)})
	require.NoError(t, err)

	require.Len(t, rebuilt, 12)
	assertMoney(t, "10000.00", rebuilt[0].PlannedPayment)
	assert.True(t, rebuilt[0].InterestPart.IsZero())
}

func TestRebuildAfterChange_UnsetPatchKeepsExisting(t *testing.T) {
	loan, schedule := scenarioLoan()

	rebuilt, err := RebuildAfterChange(loan, schedule, domain.LoanParams{})
	require.NoError(t, err)

	assert.Equal(t, schedule, rebuilt)
}

func TestRebuildAfterChange_ShorterTermDropsHistory(t *testing.T) {
	loan, schedule := scenarioLoan()
	schedule = payMonths(t, schedule, 0, 9, 10)

	rebuilt, err := RebuildAfterChange(loan, schedule, domain.LoanParams{TermMonths: optional.Of(6)})
	require.NoError(t, err)
	require.Len(t, rebuilt, 6)

	assert.True(t, rebuilt[0].Paid)
	assert.Equal(t, []int{10, 11}, LostPaidMonths(schedule, rebuilt))
}

func TestRebuildAfterChange_LongerTermKeepsHistory(t *testing.T) {
	loan, schedule := scenarioLoan()
	schedule = payMonths(t, schedule, 11)

	rebuilt, err := RebuildAfterChange(loan, schedule, domain.LoanParams{TermMonths: optional.Of(24)})
	require.NoError(t, err)
	require.Len(t, rebuilt, 24)

	assert.True(t, rebuilt[11].Paid)
	assert.Empty(t, LostPaidMonths(schedule, rebuilt))
}

func TestRebuildAfterChange_ScheduleTypeLockedOncePaid(t *testing.T) {
	loan, schedule := scenarioLoan()
	change := domain.LoanParams{ScheduleType: domain.ScheduleTypeDifferentiated}

	t.Run("allowed without payments", func(t *testing.T) {
		rebuilt, err := RebuildAfterChange(loan, schedule, change)
		require.NoError(t, err)
		assertMoney(t, "11200.00", rebuilt[0].PlannedPayment)
	})

	t.Run("refused with payments", func(t *testing.T) {
		paid := payMonths(t, schedule, 0)
		rebuilt, err := RebuildAfterChange(loan, paid, change)
		assert.Nil(t, rebuilt)
		assert.True(t, errors.Is(err, customError.ErrScheduleTypeLocked))
	})

	t.Run("explicit annuity equals unset", func(t *testing.T) {
		paid := payMonths(t, schedule, 0)
		_, err := RebuildAfterChange(loan, paid, domain.LoanParams{ScheduleType: domain.ScheduleTypeAnnuity})
		assert.NoError(t, err)
	})
}

func TestRebuildAfterChange_MalformedSchedule(t *testing.T) {
	loan, schedule := scenarioLoan()
	broken := append([]domain.ScheduleItem{}, schedule[1:]...)

	_, err := RebuildAfterChange(loan, broken, domain.LoanParams{})
	assert.True(t, errors.Is(err, customError.ErrMalformedSchedule))
}

func TestRebuildAfterChange_InsufficientParams(t *testing.T) {
	loan := domain.Loan{Name: "Draft"}.WithParams(domain.LoanParams{Amount: optional.Of(dec("1000"))})

	rebuilt, err := RebuildAfterChange(loan, nil, domain.LoanParams{TermMonths: optional.Of(10)})
	require.NoError(t, err)
	assert.Empty(t, rebuilt)

	rebuilt, err = RebuildAfterChange(loan, nil, domain.LoanParams{
		TermMonths: optional.Of(10),
		AnnualRate: optional.Of(decimal.Zero),
		StartDate:  optional.Of(domain.MustParseDate("2024-02-01")),
	})
	require.NoError(t, err)
	assert.Len(t, rebuilt, 10)
}
