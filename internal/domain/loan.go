package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
)

const (
	LoanStatusActive   = "active"
	LoanStatusArchived = "archived"
)

// MaxTermMonths is the longest loan the engine accepts (100 years).
// Keep the max= validate tags on the request DTOs in sync.
const MaxTermMonths = 1200

// ScheduleType selects the amortization method
type ScheduleType string

const (
	ScheduleTypeAnnuity        ScheduleType = "annuity"
	ScheduleTypeDifferentiated ScheduleType = "differentiated"
)

// OrDefault returns the type, falling back to annuity when unset or unknown
func (t ScheduleType) OrDefault() ScheduleType {
	if t == ScheduleTypeDifferentiated {
		return t
	}
	return ScheduleTypeAnnuity
}

// Valid reports whether t is empty or a known schedule type
func (t ScheduleType) Valid() bool {
	return t == "" || t == ScheduleTypeAnnuity || t == ScheduleTypeDifferentiated
}

// InputMode tells which smart-input field is derived from the other three
type InputMode string

const (
	// InputModePayment derives monthlyPayment from amount, rate and term
	InputModePayment InputMode = "payment"
	// InputModeTerm derives termMonths from amount, rate and payment
	InputModeTerm InputMode = "term"
	// InputModeAmount derives amount from rate, term and payment
	InputModeAmount InputMode = "amount"
)

// Valid reports whether m is empty or a known input mode
func (m InputMode) Valid() bool {
	return m == "" || m == InputModePayment || m == InputModeTerm || m == InputModeAmount
}

// LoanParams are the schedule-generating parameters of a loan.
// Every field may be unset; a zero AnnualRate is an interest-free loan.
type LoanParams struct {
	ScheduleType ScheduleType                    `json:"schedule_type,omitempty"`
	Amount       optional.Value[decimal.Decimal] `json:"amount"`
	AnnualRate   optional.Value[decimal.Decimal] `json:"annual_rate"`
	TermMonths   optional.Value[int]             `json:"term_months"`
	StartDate    optional.Value[Date]            `json:"start_date"`
	PaymentDay   optional.Value[int]             `json:"payment_day"`
}

// Merge returns p with every field set in over replacing p's value
func (p LoanParams) Merge(over LoanParams) LoanParams {
	merged := LoanParams{
		ScheduleType: p.ScheduleType,
		Amount:       over.Amount.Or(p.Amount),
		AnnualRate:   over.AnnualRate.Or(p.AnnualRate),
		TermMonths:   over.TermMonths.Or(p.TermMonths),
		StartDate:    over.StartDate.Or(p.StartDate),
		PaymentDay:   over.PaymentDay.Or(p.PaymentDay),
	}
	if over.ScheduleType != "" {
		merged.ScheduleType = over.ScheduleType
	}
	return merged
}

// Complete reports whether amount, rate, term and start date are all present
func (p LoanParams) Complete() bool {
	return p.Amount.IsSet() && p.AnnualRate.IsSet() && p.TermMonths.IsSet() && p.StartDate.IsSet()
}

// Loan represents one borrowing instrument
type Loan struct {
	ID             uuid.UUID                       `json:"id"`
	Name           string                          `json:"name"`
	Description    string                          `json:"description"`
	Notes          string                          `json:"notes"`
	ScheduleType   ScheduleType                    `json:"schedule_type"`
	Amount         optional.Value[decimal.Decimal] `json:"amount"`
	AnnualRate     optional.Value[decimal.Decimal] `json:"annual_rate"`
	TermMonths     optional.Value[int]             `json:"term_months"`
	StartDate      optional.Value[Date]            `json:"start_date"`
	PaymentDay     optional.Value[int]             `json:"payment_day"`
	MonthlyPayment optional.Value[decimal.Decimal] `json:"monthly_payment"`
	CurrentBalance decimal.Decimal                 `json:"current_balance"`
	Status         string                          `json:"status"`
	InputMode      InputMode                       `json:"input_mode"`
	CreatedAt      time.Time                       `json:"created_at"`
	UpdatedAt      time.Time                       `json:"updated_at"`
}

// Params extracts the schedule-generating parameters
func (l Loan) Params() LoanParams {
	return LoanParams{
		ScheduleType: l.ScheduleType,
		Amount:       l.Amount,
		AnnualRate:   l.AnnualRate,
		TermMonths:   l.TermMonths,
		StartDate:    l.StartDate,
		PaymentDay:   l.PaymentDay,
	}
}

// WithParams returns a copy of the loan carrying p
func (l Loan) WithParams(p LoanParams) Loan {
	l.ScheduleType = p.ScheduleType
	l.Amount = p.Amount
	l.AnnualRate = p.AnnualRate
	l.TermMonths = p.TermMonths
	l.StartDate = p.StartDate
	l.PaymentDay = p.PaymentDay
	return l
}

// IsActive reports whether the loan is not archived
func (l Loan) IsActive() bool {
	return l.Status != LoanStatusArchived
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	Name           string           `json:"name" validate:"required,max=200"`
	Description    string           `json:"description" validate:"max=2000"`
	Notes          string           `json:"notes" validate:"max=5000"`
	ScheduleType   ScheduleType     `json:"schedule_type" validate:"omitempty,oneof=annuity differentiated"`
	InputMode      InputMode        `json:"input_mode" validate:"omitempty,oneof=payment term amount"`
	Amount         *decimal.Decimal `json:"amount"`
	AnnualRate     *decimal.Decimal `json:"annual_rate"`
	TermMonths     *int             `json:"term_months" validate:"omitempty,gt=0,max=1200"`
	StartDate      *Date            `json:"start_date"`
	PaymentDay     *int             `json:"payment_day" validate:"omitempty,min=1,max=31"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
}

// UpdateLoanParamsRequest carries only the fields being changed
type UpdateLoanParamsRequest struct {
	ScheduleType   ScheduleType     `json:"schedule_type" validate:"omitempty,oneof=annuity differentiated"`
	InputMode      InputMode        `json:"input_mode" validate:"omitempty,oneof=payment term amount"`
	Amount         *decimal.Decimal `json:"amount"`
	AnnualRate     *decimal.Decimal `json:"annual_rate"`
	TermMonths     *int             `json:"term_months" validate:"omitempty,gt=0,max=1200"`
	StartDate      *Date            `json:"start_date"`
	PaymentDay     *int             `json:"payment_day" validate:"omitempty,min=1,max=31"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
}

// Params converts the request into a params patch
func (r UpdateLoanParamsRequest) Params() LoanParams {
	return LoanParams{
		ScheduleType: r.ScheduleType,
		Amount:       optional.FromPtr(r.Amount),
		AnnualRate:   optional.FromPtr(r.AnnualRate),
		TermMonths:   optional.FromPtr(r.TermMonths),
		StartDate:    optional.FromPtr(r.StartDate),
		PaymentDay:   optional.FromPtr(r.PaymentDay),
	}
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active archived"`
}

type LoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []ScheduleItem `json:"schedule"`
}
