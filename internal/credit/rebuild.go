package credit

import (
	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
)

type paidRecord struct {
	amount optional.Value[decimal.Decimal]
	at     optional.Value[domain.Date]
}

// RebuildAfterChange regenerates the schedule from newParams merged over the
// loan's parameters and re-attaches the payment history of every month that
// still exists. Interest and principal of re-attached rows are the freshly
// computed ones. Paid months beyond a shortened term are dropped; see
// LostPaidMonths.
//
// Changing the schedule type while any month is paid is refused, since it
// would rewrite the accounting of months already settled.
func RebuildAfterChange(loan domain.Loan, schedule []domain.ScheduleItem, newParams domain.LoanParams) ([]domain.ScheduleItem, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}

	history := make(map[int]paidRecord)
	for _, item := range schedule {
		if item.Paid {
			history[item.MonthNumber] = paidRecord{amount: item.PaidAmount, at: item.PaidAt}
		}
	}

	merged := loan.Params().Merge(newParams)

	from, to := loan.ScheduleType.OrDefault(), merged.ScheduleType.OrDefault()
	if len(history) > 0 && from != to {
		return nil, customError.WrapScheduleTypeLocked(string(from), string(to))
	}

	rebuilt := BuildSchedule(merged)
	for i := range rebuilt {
		if record, ok := history[rebuilt[i].MonthNumber]; ok {
			rebuilt[i].Paid = true
			rebuilt[i].PaidAmount = record.amount
			rebuilt[i].PaidAt = record.at
		}
	}

	return rebuilt, nil
}

// LostPaidMonths lists paid month numbers of before that have no row in after
func LostPaidMonths(before, after []domain.ScheduleItem) []int {
	present := make(map[int]struct{}, len(after))
	for _, item := range after {
		present[item.MonthNumber] = struct{}{}
	}

	var lost []int
	for _, item := range byMonth(before) {
		if !item.Paid {
			continue
		}
		if _, ok := present[item.MonthNumber]; !ok {
			lost = append(lost, item.MonthNumber)
		}
	}
	return lost
}
