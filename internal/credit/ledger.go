package credit

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/utils"
)

// ApplyPayment toggles the paid state of the row at index and returns a new
// schedule. Marking a row paid records paidAmount (the planned payment when
// unset) and today; marking it unpaid clears both. The input is never modified.
func ApplyPayment(schedule []domain.ScheduleItem, index int, paidAmount optional.Value[decimal.Decimal], today domain.Date) ([]domain.ScheduleItem, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(schedule) {
		return nil, customError.WrapInvalidScheduleIndex(index, len(schedule))
	}
	if amount, ok := paidAmount.Get(); ok && !amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(amount.String())
	}

	next := make([]domain.ScheduleItem, len(schedule))
	copy(next, schedule)

	row := next[index]
	if row.Paid {
		row = row.ClearPayment()
	} else {
		row.Paid = true
		row.PaidAmount = optional.Of(utils.Round2(paidAmount.OrElse(row.PlannedPayment)))
		row.PaidAt = optional.Of(today)
	}
	next[index] = row

	return next, nil
}

// RecalculateCurrentBalance derives the outstanding principal from paid rows:
// max(0, amount - sum of principal over paid rows)
func RecalculateCurrentBalance(loan domain.Loan, schedule []domain.ScheduleItem) decimal.Decimal {
	amount := loan.Amount.OrElse(decimal.Zero)

	repaid := decimal.Zero
	for _, item := range byMonth(schedule) {
		if item.Paid {
			repaid = repaid.Add(item.PrincipalPart)
		}
	}

	balance := utils.Round2(amount.Sub(repaid))
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// CalculateCreditSummary aggregates scheduled totals, what was actually paid
// and what is still outstanding
func CalculateCreditSummary(loan domain.Loan, schedule []domain.ScheduleItem) domain.CreditSummary {
	summary := domain.CreditSummary{
		TotalInterestPaid: decimal.Zero,
		TotalPaid:         decimal.Zero,
		ActualPaid:        decimal.Zero,
	}

	for _, item := range byMonth(schedule) {
		summary.TotalInterestPaid = summary.TotalInterestPaid.Add(item.InterestPart)
		summary.TotalPaid = summary.TotalPaid.Add(item.PlannedPayment)
		if item.Paid {
			summary.ActualPaid = summary.ActualPaid.Add(item.EffectivePaidAmount())
		} else {
			summary.MonthsRemaining++
		}
	}

	summary.TotalInterestPaid = utils.Round2(summary.TotalInterestPaid)
	summary.TotalPaid = utils.Round2(summary.TotalPaid)
	summary.ActualPaid = utils.Round2(summary.ActualPaid)
	summary.CurrentBalance = RecalculateCurrentBalance(loan, schedule)

	return summary
}

// ValidateSchedule checks that rows are numbered 1..N in order
func ValidateSchedule(schedule []domain.ScheduleItem) error {
	for i, item := range schedule {
		if item.MonthNumber != i+1 {
			return customError.WrapMalformedSchedule(
				fmt.Sprintf("row %d has month number %d, expected %d", i, item.MonthNumber, i+1),
			)
		}
	}
	return nil
}

// byMonth returns a copy of the schedule sorted by month number
func byMonth(schedule []domain.ScheduleItem) []domain.ScheduleItem {
	sorted := make([]domain.ScheduleItem, len(schedule))
	copy(sorted, schedule)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MonthNumber < sorted[j].MonthNumber
	})
	return sorted
}
