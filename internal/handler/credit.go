package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/response"
)

// CreditService is what the loan endpoints need from the service layer
type CreditService interface {
	CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []domain.ScheduleItem, error)
	GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, []domain.ScheduleItem, error)
	ListLoans(ctx context.Context, status string) ([]*domain.Loan, error)
	GetSchedule(ctx context.Context, loanID uuid.UUID) ([]domain.ScheduleItem, error)
	UpdateLoanParams(ctx context.Context, loanID uuid.UUID, request *domain.UpdateLoanParamsRequest) (*domain.Loan, []domain.ScheduleItem, error)
	TogglePayment(ctx context.Context, loanID uuid.UUID, index int, request *domain.TogglePaymentRequest) (*domain.Loan, []domain.ScheduleItem, error)
	GetSummary(ctx context.Context, loanID uuid.UUID) (domain.CreditSummary, error)
	SetStatus(ctx context.Context, loanID uuid.UUID, status string) (*domain.Loan, error)
	UpcomingPayments(ctx context.Context, daysAhead int) ([]domain.UpcomingPayment, error)
}

type CreditHandler struct {
	service   CreditService
	validator *validator.Validate
}

func NewCreditHandler(service CreditService) *CreditHandler {
	return &CreditHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *CreditHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if !h.decode(w, r, &request) {
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, domain.LoanResponse{Loan: loan, Schedule: schedule})
}

// ListLoans handles GET /api/v1/loans?status=
func (h *CreditHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *CreditHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDFrom(w, r)
	if !ok {
		return
	}

	loan, schedule, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.LoanResponse{Loan: loan, Schedule: schedule})
}

// UpdateParams handles PATCH /api/v1/loans/{loanId}/params
func (h *CreditHandler) UpdateParams(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDFrom(w, r)
	if !ok {
		return
	}

	var request domain.UpdateLoanParamsRequest
	if !h.decode(w, r, &request) {
		return
	}

	loan, schedule, err := h.service.UpdateLoanParams(r.Context(), loanID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.LoanResponse{Loan: loan, Schedule: schedule})
}

// SetStatus handles POST /api/v1/loans/{loanId}/status
func (h *CreditHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDFrom(w, r)
	if !ok {
		return
	}

	var request domain.SetStatusRequest
	if !h.decode(w, r, &request) {
		return
	}

	loan, err := h.service.SetStatus(r.Context(), loanID, request.Status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

// GetSchedule handles GET /api/v1/loans/{loanId}/schedule
func (h *CreditHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDFrom(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{LoanID: loanID, Schedule: schedule})
}

// TogglePayment handles POST /api/v1/loans/{loanId}/schedule/{index}/toggle.
// The body is optional; without paid_amount the planned payment is recorded.
func (h *CreditHandler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDFrom(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		response.BadRequest(w, "Invalid schedule index", err)
		return
	}

	var request domain.TogglePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	loan, schedule, err := h.service.TogglePayment(r.Context(), loanID, index, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.LoanResponse{Loan: loan, Schedule: schedule})
}

// GetSummary handles GET /api/v1/loans/{loanId}/summary
func (h *CreditHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDFrom(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.SummaryResponse{LoanID: loanID, Summary: summary})
}

// UpcomingPayments handles GET /api/v1/payments/upcoming?days=N.
// Without days the service falls back to its configured window; an explicit
// negative value is a malformed query and gets 400.
func (h *CreditHandler) UpcomingPayments(w http.ResponseWriter, r *http.Request) {
	days := -1
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, "days must be a non-negative integer", err)
			return
		}
		days = parsed
	}

	upcoming, err := h.service.UpcomingPayments(r.Context(), days)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, upcoming)
}

// decode reads and validates a JSON body, answering 400 itself on failure
func (h *CreditHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decodeAndValidate(w, r, h.validator, dst)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}

	if err := v.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}

	return true
}

func loanIDFrom(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return uuid.Nil, false
	}
	return loanID, true
}
