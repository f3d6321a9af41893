package credit

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/utils"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func loanParams(amount, rate string, term int, start string) domain.LoanParams {
	return domain.LoanParams{
		Amount:     optional.Of(dec(amount)),
		AnnualRate: optional.Of(dec(rate)),
		TermMonths: optional.Of(term),
		StartDate:  optional.Of(domain.MustParseDate(start)),
	}
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, actual.StringFixed(2), msgAndArgs...)
}

func TestBuildAnnuitySchedule_Scenario(t *testing.T) {
	schedule := BuildAnnuitySchedule(loanParams("120000", "12", 12, "2024-01-01"))

	require.Len(t, schedule, 12)

	payment, ok := CalculateAnnuityPayment(dec("120000"), dec("12"), 12)
	require.True(t, ok)
	assertMoney(t, "10661.85", payment)

	first := schedule[0]
	assert.Equal(t, 1, first.MonthNumber)
	assert.Equal(t, "2024-01-01", first.PaymentDate.String())
	assertMoney(t, "10661.85", first.PlannedPayment)
	assertMoney(t, "1200.00", first.InterestPart)
	assertMoney(t, "9461.85", first.PrincipalPart)
	assertMoney(t, "110538.15", first.RemainingBalance)

	last := schedule[11]
	assert.Equal(t, 12, last.MonthNumber)
	assert.Equal(t, "2024-12-01", last.PaymentDate.String())
	assertMoney(t, "105.56", last.InterestPart)
	assertMoney(t, "10556.35", last.PrincipalPart)
	assertMoney(t, "10661.91", last.PlannedPayment)
	assert.True(t, last.RemainingBalance.IsZero())
}

func TestBuildAnnuitySchedule_ZeroRate(t *testing.T) {
	schedule := BuildAnnuitySchedule(loanParams("1200", "0", 12, "2024-01-01"))

	require.Len(t, schedule, 12)
	for _, item := range schedule {
		assertMoney(t, "100.00", item.PlannedPayment, "month %d", item.MonthNumber)
		assert.True(t, item.InterestPart.IsZero(), "month %d", item.MonthNumber)
	}
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestBuildAnnuitySchedule_ZeroRateUnevenSplit(t *testing.T) {
	schedule := BuildAnnuitySchedule(loanParams("1000", "0", 3, "2024-01-01"))

	require.Len(t, schedule, 3)
	assertMoney(t, "333.33", schedule[0].PlannedPayment)
	assertMoney(t, "333.33", schedule[1].PlannedPayment)
	assertMoney(t, "333.34", schedule[2].PlannedPayment)
	assertMoney(t, "333.34", schedule[1].RemainingBalance)
}

func TestBuildDifferentiatedSchedule_Scenario(t *testing.T) {
	schedule := BuildDifferentiatedSchedule(loanParams("120000", "12", 12, "2024-01-01"))

	require.Len(t, schedule, 12)
	assertMoney(t, "11200.00", schedule[0].PlannedPayment)
	assertMoney(t, "11100.00", schedule[1].PlannedPayment)
	assertMoney(t, "10100.00", schedule[11].PlannedPayment)

	totalInterest := decimal.Zero
	for _, item := range schedule {
		assertMoney(t, "10000.00", item.PrincipalPart, "month %d", item.MonthNumber)
		totalInterest = totalInterest.Add(item.InterestPart)
	}
	assertMoney(t, "7800.00", totalInterest)
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestBuildSchedule_InsufficientInput(t *testing.T) {
	complete := loanParams("1000", "5", 12, "2024-01-01")

	tests := []struct {
		name   string
		mutate func(p *domain.LoanParams)
	}{
		{name: "amount unset", mutate: func(p *domain.LoanParams) { p.Amount = optional.None[decimal.Decimal]() }},
		{name: "amount zero", mutate: func(p *domain.LoanParams) { p.Amount = optional.Of(decimal.Zero) }},
		{name: "amount negative", mutate: func(p *domain.LoanParams) { p.Amount = optional.Of(dec("-10")) }},
		{name: "rate unset", mutate: func(p *domain.LoanParams) { p.AnnualRate = optional.None[decimal.Decimal]() }},
		{name: "rate negative", mutate: func(p *domain.LoanParams) { p.AnnualRate = optional.Of(dec("-1")) }},
		{name: "term unset", mutate: func(p *domain.LoanParams) { p.TermMonths = optional.None[int]() }},
		{name: "term zero", mutate: func(p *domain.LoanParams) { p.TermMonths = optional.Of(0) }},
		{name: "term above limit", mutate: func(p *domain.LoanParams) { p.TermMonths = optional.Of(domain.MaxTermMonths + 1) }},
		{name: "start date unset", mutate: func(p *domain.LoanParams) { p.StartDate = optional.None[domain.Date]() }},
	}

	for _, tt := range tests {
		for _, scheduleType := range []domain.ScheduleType{domain.ScheduleTypeAnnuity, domain.ScheduleTypeDifferentiated} {
			t.Run(fmt.Sprintf("%s/%s", scheduleType, tt.name), func(t *testing.T) {
				p := complete
				p.ScheduleType = scheduleType
				tt.mutate(&p)

				schedule := BuildSchedule(p)
				assert.NotNil(t, schedule)
				assert.Empty(t, schedule)
			})
		}
	}
}

func TestBuildSchedule_ZeroRateIsNotUnset(t *testing.T) {
	p := loanParams("600", "0", 6, "2024-01-01")
	assert.Len(t, BuildSchedule(p), 6)

	p.AnnualRate = optional.None[decimal.Decimal]()
	assert.Empty(t, BuildSchedule(p))
}

func TestBuildSchedule_Dispatch(t *testing.T) {
	p := loanParams("120000", "12", 12, "2024-01-01")

	p.ScheduleType = ""
	assertMoney(t, "10661.85", BuildSchedule(p)[1].PlannedPayment)

	p.ScheduleType = domain.ScheduleTypeAnnuity
	assertMoney(t, "10661.85", BuildSchedule(p)[1].PlannedPayment)

	p.ScheduleType = domain.ScheduleTypeDifferentiated
	assertMoney(t, "11100.00", BuildSchedule(p)[1].PlannedPayment)
}

func TestBuildSchedule_PaymentDates(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		paymentDay optional.Value[int]
		expected   []string
	}{
		{
			name:     "start day kept",
			start:    "2024-01-15",
			expected: []string{"2024-01-15", "2024-02-15", "2024-03-15", "2024-04-15"},
		},
		{
			name:       "payment day overrides and clamps",
			start:      "2024-01-15",
			paymentDay: optional.Of(31),
			expected:   []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"},
		},
		{
			name:     "end of month start clamps without drifting",
			start:    "2023-01-31",
			expected: []string{"2023-01-31", "2023-02-28", "2023-03-31", "2023-04-30"},
		},
		{
			name:       "out of range payment day ignored",
			start:      "2024-01-10",
			paymentDay: optional.Of(0),
			expected:   []string{"2024-01-10", "2024-02-10", "2024-03-10", "2024-04-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loanParams("4000", "6", 4, tt.start)
			p.PaymentDay = tt.paymentDay

			schedule := BuildSchedule(p)
			require.Len(t, schedule, len(tt.expected))
			for i, item := range schedule {
				assert.Equal(t, tt.expected[i], item.PaymentDate.String())
			}
		})
	}
}

func TestBuildSchedule_EarlyPayoff(t *testing.T) {
	// 0.005 per month rounds up to a cent, so principal runs out after 100 months
	schedule := BuildDifferentiatedSchedule(loanParams("1", "0", 200, "2024-01-01"))

	require.Len(t, schedule, 100)
	assert.True(t, schedule[99].RemainingBalance.IsZero())
	assertMoney(t, "0.01", schedule[99].PrincipalPart)
}

func TestBuildSchedule_Invariants(t *testing.T) {
	amounts := []string{"1", "1000", "250000.55"}
	rates := []string{"0", "3.5", "12", "29.9"}
	terms := []int{1, 7, 60, 360}
	types := []domain.ScheduleType{domain.ScheduleTypeAnnuity, domain.ScheduleTypeDifferentiated}

	for _, amount := range amounts {
		for _, rate := range rates {
			for _, term := range terms {
				for _, scheduleType := range types {
					name := fmt.Sprintf("%s/%s/%s/%d", scheduleType, amount, rate, term)
					t.Run(name, func(t *testing.T) {
						p := loanParams(amount, rate, term, "2024-01-31")
						p.ScheduleType = scheduleType

						schedule := BuildSchedule(p)
						require.NotEmpty(t, schedule)
						assert.LessOrEqual(t, len(schedule), term)

						principal := decimal.Zero
						for i, item := range schedule {
							assert.Equal(t, i+1, item.MonthNumber)
							assert.True(t, utils.Round2(item.InterestPart.Add(item.PrincipalPart)).Equal(item.PlannedPayment),
								"month %d: %s + %s != %s", item.MonthNumber, item.InterestPart, item.PrincipalPart, item.PlannedPayment)
							assert.False(t, item.RemainingBalance.IsNegative())
							principal = principal.Add(item.PrincipalPart)
						}

						assert.True(t, schedule[len(schedule)-1].RemainingBalance.IsZero())
						assert.True(t, principal.Equal(dec(amount)), "principal sum %s != %s", principal, amount)

						if scheduleType == domain.ScheduleTypeAnnuity {
							payment, ok := CalculateAnnuityPayment(dec(amount), dec(rate), term)
							require.True(t, ok)
							assert.True(t, schedule[0].PlannedPayment.Sub(payment).Abs().LessThanOrEqual(dec("0.01")),
								"first payment %s vs %s", schedule[0].PlannedPayment, payment)
						}
					})
				}
			}
		}
	}
}

func TestBuildSchedule_DoesNotShareState(t *testing.T) {
	p := loanParams("1200", "0", 12, "2024-01-01")

	a := BuildSchedule(p)
	b := BuildSchedule(p)
	a[0].Paid = true

	assert.False(t, b[0].Paid)
}
