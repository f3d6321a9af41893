// Package credit builds and maintains loan amortization schedules.
//
// Every function in this package is a pure transformation of its arguments:
// nothing reads the clock, performs I/O or mutates a caller's schedule. Inputs
// that are missing or out of range produce an empty schedule or a false ok flag,
// which callers render as "not enough data yet". Only malformed schedules and
// out-of-range row indexes, which valid user input cannot produce, are errors.
package credit

import (
	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/utils"
)

var one = decimal.NewFromInt(1)

func validTerm(months int) bool {
	return months > 0 && months <= domain.MaxTermMonths
}

// scheduleInputs are validated generating parameters
type scheduleInputs struct {
	amount      decimal.Decimal
	monthlyRate decimal.Decimal
	annualRate  decimal.Decimal
	term        int
	start       domain.Date
	paymentDay  int
}

func resolveInputs(p domain.LoanParams) (scheduleInputs, bool) {
	amount, ok := p.Amount.Get()
	if !ok || !amount.IsPositive() {
		return scheduleInputs{}, false
	}
	rate, ok := p.AnnualRate.Get()
	if !ok || rate.IsNegative() {
		return scheduleInputs{}, false
	}
	term, ok := p.TermMonths.Get()
	if !ok || !validTerm(term) {
		return scheduleInputs{}, false
	}
	start, ok := p.StartDate.Get()
	if !ok || start.IsZero() {
		return scheduleInputs{}, false
	}

	return scheduleInputs{
		amount:      amount,
		monthlyRate: utils.MonthlyRate(rate),
		annualRate:  rate,
		term:        term,
		start:       start,
		paymentDay:  p.PaymentDay.OrElse(0),
	}, true
}

// BuildSchedule dispatches on the schedule type; unset means annuity
func BuildSchedule(p domain.LoanParams) []domain.ScheduleItem {
	if p.ScheduleType.OrDefault() == domain.ScheduleTypeDifferentiated {
		return BuildDifferentiatedSchedule(p)
	}
	return BuildAnnuitySchedule(p)
}

// BuildAnnuitySchedule builds a fixed-payment schedule. The payment comes from
// CalculateAnnuityPayment; the final row absorbs the rounding residual so the
// remaining balance ends at exactly zero.
func BuildAnnuitySchedule(p domain.LoanParams) []domain.ScheduleItem {
	in, ok := resolveInputs(p)
	if !ok {
		return []domain.ScheduleItem{}
	}

	payment, ok := CalculateAnnuityPayment(in.amount, in.annualRate, in.term)
	if !ok {
		return []domain.ScheduleItem{}
	}

	return amortize(in, func(_ int, _, interest decimal.Decimal) decimal.Decimal {
		return payment.Sub(interest)
	})
}

// BuildDifferentiatedSchedule builds a fixed-principal schedule: amount/term
// of principal every month and the exact remaining balance in the last one.
func BuildDifferentiatedSchedule(p domain.LoanParams) []domain.ScheduleItem {
	in, ok := resolveInputs(p)
	if !ok {
		return []domain.ScheduleItem{}
	}

	fixedPrincipal := utils.Round2(in.amount.Div(decimal.NewFromInt(int64(in.term))))

	return amortize(in, func(month int, balance, _ decimal.Decimal) decimal.Decimal {
		if month == in.term {
			return balance
		}
		return fixedPrincipal
	})
}

// amortize runs the month loop shared by both methods. principalFor returns the
// unrounded principal due for a month given the opening balance and its interest.
func amortize(in scheduleInputs, principalFor func(month int, balance, interest decimal.Decimal) decimal.Decimal) []domain.ScheduleItem {
	items := make([]domain.ScheduleItem, 0, in.term)
	balance := in.amount

	for month := 1; month <= in.term; month++ {
		interest := utils.Round2(balance.Mul(in.monthlyRate))
		principal := utils.Round2(principalFor(month, balance, interest))
		newBalance := utils.Round2(balance.Sub(principal))

		// The final row settles whatever is left, including an early payoff
		// when rounding drives the balance to zero before the nominal term.
		final := month == in.term || !newBalance.IsPositive()
		if final {
			principal = principal.Add(newBalance)
			newBalance = decimal.Zero
		}

		items = append(items, domain.ScheduleItem{
			MonthNumber:      month,
			PaymentDate:      domain.Date{Time: utils.CalculateDueDate(in.start.Time, month, in.paymentDay)},
			PlannedPayment:   utils.Round2(interest.Add(principal)),
			InterestPart:     interest,
			PrincipalPart:    principal,
			RemainingBalance: newBalance,
		})

		if final {
			break
		}
		balance = newBalance
	}

	return items
}
