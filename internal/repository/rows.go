package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
)

// loanRow is the storage shape of domain.Loan; unset parameters are NULL
type loanRow struct {
	ID             string              `db:"id"`
	Name           string              `db:"name"`
	Description    string              `db:"description"`
	Notes          string              `db:"notes"`
	ScheduleType   string              `db:"schedule_type"`
	Amount         decimal.NullDecimal `db:"amount"`
	AnnualRate     decimal.NullDecimal `db:"annual_rate"`
	TermMonths     sql.NullInt64       `db:"term_months"`
	StartDate      *domain.Date        `db:"start_date"`
	PaymentDay     sql.NullInt64       `db:"payment_day"`
	MonthlyPayment decimal.NullDecimal `db:"monthly_payment"`
	CurrentBalance decimal.Decimal     `db:"current_balance"`
	Status         string              `db:"status"`
	InputMode      string              `db:"input_mode"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

type scheduleRow struct {
	LoanID           string              `db:"loan_id"`
	MonthNumber      int                 `db:"month_number"`
	PaymentDate      domain.Date         `db:"payment_date"`
	PlannedPayment   decimal.Decimal     `db:"planned_payment"`
	InterestPart     decimal.Decimal     `db:"interest_part"`
	PrincipalPart    decimal.Decimal     `db:"principal_part"`
	RemainingBalance decimal.Decimal     `db:"remaining_balance"`
	Paid             bool                `db:"paid"`
	PaidAmount       decimal.NullDecimal `db:"paid_amount"`
	PaidAt           *domain.Date        `db:"paid_at"`
}

func toNullDecimal(v optional.Value[decimal.Decimal]) decimal.NullDecimal {
	d, ok := v.Get()
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

func fromNullDecimal(n decimal.NullDecimal) optional.Value[decimal.Decimal] {
	if !n.Valid {
		return optional.None[decimal.Decimal]()
	}
	return optional.Of(n.Decimal)
}

func toNullInt(v optional.Value[int]) sql.NullInt64 {
	i, ok := v.Get()
	return sql.NullInt64{Int64: int64(i), Valid: ok}
}

func fromNullInt(n sql.NullInt64) optional.Value[int] {
	if !n.Valid {
		return optional.None[int]()
	}
	return optional.Of(int(n.Int64))
}

func newLoanRow(l *domain.Loan) loanRow {
	return loanRow{
		ID:             l.ID.String(),
		Name:           l.Name,
		Description:    l.Description,
		Notes:          l.Notes,
		ScheduleType:   string(l.ScheduleType),
		Amount:         toNullDecimal(l.Amount),
		AnnualRate:     toNullDecimal(l.AnnualRate),
		TermMonths:     toNullInt(l.TermMonths),
		StartDate:      l.StartDate.Ptr(),
		PaymentDay:     toNullInt(l.PaymentDay),
		MonthlyPayment: toNullDecimal(l.MonthlyPayment),
		CurrentBalance: l.CurrentBalance,
		Status:         l.Status,
		InputMode:      string(l.InputMode),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func (r loanRow) toDomain() (*domain.Loan, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("loan id %q: %w", r.ID, err)
	}

	return &domain.Loan{
		ID:             id,
		Name:           r.Name,
		Description:    r.Description,
		Notes:          r.Notes,
		ScheduleType:   domain.ScheduleType(r.ScheduleType),
		Amount:         fromNullDecimal(r.Amount),
		AnnualRate:     fromNullDecimal(r.AnnualRate),
		TermMonths:     fromNullInt(r.TermMonths),
		StartDate:      optional.FromPtr(r.StartDate),
		PaymentDay:     fromNullInt(r.PaymentDay),
		MonthlyPayment: fromNullDecimal(r.MonthlyPayment),
		CurrentBalance: r.CurrentBalance,
		Status:         r.Status,
		InputMode:      domain.InputMode(r.InputMode),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}, nil
}

func newScheduleRow(loanID uuid.UUID, item domain.ScheduleItem) scheduleRow {
	return scheduleRow{
		LoanID:           loanID.String(),
		MonthNumber:      item.MonthNumber,
		PaymentDate:      item.PaymentDate,
		PlannedPayment:   item.PlannedPayment,
		InterestPart:     item.InterestPart,
		PrincipalPart:    item.PrincipalPart,
		RemainingBalance: item.RemainingBalance,
		Paid:             item.Paid,
		PaidAmount:       toNullDecimal(item.PaidAmount),
		PaidAt:           item.PaidAt.Ptr(),
	}
}

func (r scheduleRow) toDomain() domain.ScheduleItem {
	return domain.ScheduleItem{
		MonthNumber:      r.MonthNumber,
		PaymentDate:      r.PaymentDate,
		PlannedPayment:   r.PlannedPayment,
		InterestPart:     r.InterestPart,
		PrincipalPart:    r.PrincipalPart,
		RemainingBalance: r.RemainingBalance,
		Paid:             r.Paid,
		PaidAmount:       fromNullDecimal(r.PaidAmount),
		PaidAt:           optional.FromPtr(r.PaidAt),
	}
}
