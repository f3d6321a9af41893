package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
)

// ScheduleItem represents one payment period of a loan schedule.
// Rows are ordered by MonthNumber starting at 1 without gaps.
type ScheduleItem struct {
	MonthNumber      int                             `json:"month_number"`
	PaymentDate      Date                            `json:"payment_date"`
	PlannedPayment   decimal.Decimal                 `json:"planned_payment"`
	InterestPart     decimal.Decimal                 `json:"interest_part"`
	PrincipalPart    decimal.Decimal                 `json:"principal_part"`
	RemainingBalance decimal.Decimal                 `json:"remaining_balance"`
	Paid             bool                            `json:"paid"`
	PaidAmount       optional.Value[decimal.Decimal] `json:"paid_amount"`
	PaidAt           optional.Value[Date]            `json:"paid_at"`
}

// ClearPayment returns the row in the unpaid state
func (s ScheduleItem) ClearPayment() ScheduleItem {
	s.Paid = false
	s.PaidAmount = optional.None[decimal.Decimal]()
	s.PaidAt = optional.None[Date]()
	return s
}

// EffectivePaidAmount is the recorded amount of a paid row, or its planned payment
func (s ScheduleItem) EffectivePaidAmount() decimal.Decimal {
	return s.PaidAmount.OrElse(s.PlannedPayment)
}

// CreditSummary aggregates a loan schedule
type CreditSummary struct {
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	ActualPaid        decimal.Decimal `json:"actual_paid"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	MonthsRemaining   int             `json:"months_remaining"`
}

// UpcomingPayment is one unpaid row due soon
type UpcomingPayment struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	LoanName    string          `json:"loan_name"`
	PaymentDate Date            `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
	MonthNumber int             `json:"month_number"`
}

// DTOs for requests and responses

type TogglePaymentRequest struct {
	PaidAmount *decimal.Decimal `json:"paid_amount"`
}

type ScheduleResponse struct {
	LoanID   uuid.UUID      `json:"loan_id"`
	Schedule []ScheduleItem `json:"schedule"`
}

type SummaryResponse struct {
	LoanID  uuid.UUID     `json:"loan_id"`
	Summary CreditSummary `json:"summary"`
}

// CalculatorRequest feeds the stateless calculator endpoints
type CalculatorRequest struct {
	ScheduleType   ScheduleType     `json:"schedule_type" validate:"omitempty,oneof=annuity differentiated"`
	Amount         *decimal.Decimal `json:"amount"`
	AnnualRate     *decimal.Decimal `json:"annual_rate"`
	TermMonths     *int             `json:"term_months" validate:"omitempty,gt=0,max=1200"`
	StartDate      *Date            `json:"start_date"`
	PaymentDay     *int             `json:"payment_day"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
}

// Params converts the request into schedule parameters
func (r CalculatorRequest) Params() LoanParams {
	return LoanParams{
		ScheduleType: r.ScheduleType,
		Amount:       optional.FromPtr(r.Amount),
		AnnualRate:   optional.FromPtr(r.AnnualRate),
		TermMonths:   optional.FromPtr(r.TermMonths),
		StartDate:    optional.FromPtr(r.StartDate),
		PaymentDay:   optional.FromPtr(r.PaymentDay),
	}
}

// CalculatorResponse carries a solved value; Value is null when the inputs are
// insufficient or infeasible
type CalculatorResponse struct {
	Value interface{} `json:"value"`
}
