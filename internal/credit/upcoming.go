package credit

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/utils"
)

// DefaultUpcomingDays is the reminder window used when none is given
const DefaultUpcomingDays = 7

// GetUpcomingPayments collects unpaid rows of active loans due within
// [today, today+daysAhead], ordered by date.
//
// A negative daysAhead stands for "no window given" and is replaced by
// DefaultUpcomingDays; it is never an error. Zero means today only.
func GetUpcomingPayments(loans []domain.Loan, schedules map[uuid.UUID][]domain.ScheduleItem, daysAhead int, today domain.Date) []domain.UpcomingPayment {
	if daysAhead < 0 {
		daysAhead = DefaultUpcomingDays
	}

	upcoming := make([]domain.UpcomingPayment, 0)
	for _, loan := range loans {
		if loan.Status != domain.LoanStatusActive {
			continue
		}

		for _, item := range schedules[loan.ID] {
			if item.Paid || !utils.IsWithinDays(item.PaymentDate.Time, today.Time, daysAhead) {
				continue
			}
			upcoming = append(upcoming, domain.UpcomingPayment{
				LoanID:      loan.ID,
				LoanName:    loan.Name,
				PaymentDate: item.PaymentDate,
				Amount:      item.PlannedPayment,
				MonthNumber: item.MonthNumber,
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if !a.PaymentDate.Equal(b.PaymentDate.Time) {
			return a.PaymentDate.Before(b.PaymentDate.Time)
		}
		if a.LoanName != b.LoanName {
			return a.LoanName < b.LoanName
		}
		return a.MonthNumber < b.MonthNumber
	})

	return upcoming
}
