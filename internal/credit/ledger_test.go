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

var today = domain.MustParseDate("2024-03-05")

func scenarioLoan() (domain.Loan, []domain.ScheduleItem) {
	p := loanParams("120000", "12", 12, "2024-01-01")
	loan := domain.Loan{Name: "Car", Status: domain.LoanStatusActive}.WithParams(p)
	return loan, BuildSchedule(p)
}

func TestApplyPayment_MarksPaid(t *testing.T) {
	_, schedule := scenarioLoan()

	next, err := ApplyPayment(schedule, 0, optional.None[decimal.Decimal](), today)
	require.NoError(t, err)

	assert.True(t, next[0].Paid)
	assert.Equal(t, optional.Of(today), next[0].PaidAt)
	assertMoney(t, "10661.85", next[0].PaidAmount.OrElse(decimal.Zero))

	// caller's schedule untouched
	assert.False(t, schedule[0].Paid)
	assert.False(t, schedule[0].PaidAmount.IsSet())
}

func TestApplyPayment_CustomAmount(t *testing.T) {
	_, schedule := scenarioLoan()

	next, err := ApplyPayment(schedule, 2, optional.Of(dec("11000.004")), today)
	require.NoError(t, err)

	assertMoney(t, "11000.00", next[2].PaidAmount.OrElse(decimal.Zero))
}

func TestApplyPayment_ToggleTwiceRestoresRow(t *testing.T) {
	_, schedule := scenarioLoan()

	paid, err := ApplyPayment(schedule, 4, optional.Of(dec("500")), today)
	require.NoError(t, err)
	unpaid, err := ApplyPayment(paid, 4, optional.None[decimal.Decimal](), today.AddDays(1))
	require.NoError(t, err)

	assert.Equal(t, schedule, unpaid)
	assert.True(t, paid[4].Paid)
}

func TestApplyPayment_Errors(t *testing.T) {
	_, schedule := scenarioLoan()

	tests := []struct {
		name     string
		schedule []domain.ScheduleItem
		index    int
		amount   optional.Value[decimal.Decimal]
		expected error
	}{
		{name: "negative index", schedule: schedule, index: -1, expected: customError.ErrInvalidScheduleIndex},
		{name: "index past end", schedule: schedule, index: 12, expected: customError.ErrInvalidScheduleIndex},
		{name: "empty schedule", schedule: []domain.ScheduleItem{}, index: 0, expected: customError.ErrInvalidScheduleIndex},
		{name: "zero amount", schedule: schedule, index: 0, amount: optional.Of(decimal.Zero), expected: customError.ErrInvalidPaymentAmount},
		{name: "gap in months", schedule: []domain.ScheduleItem{{MonthNumber: 1}, {MonthNumber: 3}}, index: 0, expected: customError.ErrMalformedSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := ApplyPayment(tt.schedule, tt.index, tt.amount, today)
			assert.Nil(t, next)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestRecalculateCurrentBalance(t *testing.T) {
	loan, schedule := scenarioLoan()

	assertMoney(t, "120000.00", RecalculateCurrentBalance(loan, schedule))

	paid, err := ApplyPayment(schedule, 0, optional.None[decimal.Decimal](), today)
	require.NoError(t, err)
	assertMoney(t, "110538.15", RecalculateCurrentBalance(loan, paid))

	// order independent
	paid, err = ApplyPayment(paid, 5, optional.None[decimal.Decimal](), today)
	require.NoError(t, err)
	reversed := make([]domain.ScheduleItem, len(paid))
	for i := range paid {
		reversed[len(paid)-1-i] = paid[i]
	}
	assert.True(t, RecalculateCurrentBalance(loan, paid).Equal(RecalculateCurrentBalance(loan, reversed)))
	assertMoney(t, "100593.65", RecalculateCurrentBalance(loan, paid))
}

func TestRecalculateCurrentBalance_FullyPaidIsZero(t *testing.T) {
	loan, schedule := scenarioLoan()

	var err error
	for i := range schedule {
		schedule, err = ApplyPayment(schedule, i, optional.None[decimal.Decimal](), today)
		require.NoError(t, err)
	}

	assert.True(t, RecalculateCurrentBalance(loan, schedule).IsZero())
}

func TestRecalculateCurrentBalance_NeverNegative(t *testing.T) {
	loan, schedule := scenarioLoan()
	loan.Amount = optional.Of(dec("5000"))

	paid, err := ApplyPayment(schedule, 0, optional.None[decimal.Decimal](), today)
	require.NoError(t, err)

	assert.True(t, RecalculateCurrentBalance(loan, paid).IsZero())
}

func TestCalculateCreditSummary(t *testing.T) {
	loan, schedule := scenarioLoan()

	schedule, err := ApplyPayment(schedule, 0, optional.None[decimal.Decimal](), today)
	require.NoError(t, err)
	schedule, err = ApplyPayment(schedule, 1, optional.Of(dec("12000")), today)
	require.NoError(t, err)

	summary := CalculateCreditSummary(loan, schedule)

	assertMoney(t, "7942.26", summary.TotalInterestPaid)
	assertMoney(t, "127942.26", summary.TotalPaid)
	assertMoney(t, "22661.85", summary.ActualPaid)
	assertMoney(t, "100981.68", summary.CurrentBalance)
	assert.Equal(t, 10, summary.MonthsRemaining)
}

func TestCalculateCreditSummary_EmptySchedule(t *testing.T) {
	loan := domain.Loan{Amount: optional.Of(dec("1000"))}

	summary := CalculateCreditSummary(loan, nil)

	assert.True(t, summary.TotalPaid.IsZero())
	assert.True(t, summary.ActualPaid.IsZero())
	assertMoney(t, "1000.00", summary.CurrentBalance)
	assert.Equal(t, 0, summary.MonthsRemaining)
}
