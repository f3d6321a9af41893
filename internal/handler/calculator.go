package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/credit"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/metrics"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/response"
)

// CalculatorHandler exposes the schedule engine without touching storage.
// Missing or infeasible inputs answer 200 with a null value.
type CalculatorHandler struct {
	validator *validator.Validate
}

func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{validator: validator.New()}
}

// Schedule handles POST /api/v1/calculator/schedule
func (h *CalculatorHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculatorRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	params := request.Params()
	schedule := credit.BuildSchedule(params)
	metrics.SchedulesBuilt.WithLabelValues(string(params.ScheduleType.OrDefault()), metrics.Outcome(len(schedule) > 0)).Inc()

	response.Success(w, domain.CalculatorResponse{Value: schedule})
}

// Payment handles POST /api/v1/calculator/payment
func (h *CalculatorHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculatorRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	var value interface{}
	if request.Amount != nil && request.AnnualRate != nil && request.TermMonths != nil {
		if payment, ok := credit.CalculateAnnuityPayment(*request.Amount, *request.AnnualRate, *request.TermMonths); ok {
			value = payment
		}
	}
	metrics.SolverCalls.WithLabelValues("payment", metrics.Outcome(value != nil)).Inc()

	response.Success(w, domain.CalculatorResponse{Value: value})
}

// Term handles POST /api/v1/calculator/term
func (h *CalculatorHandler) Term(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculatorRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	var value interface{}
	if request.Amount != nil && request.AnnualRate != nil && request.MonthlyPayment != nil {
		if term, ok := credit.CalculateTermFromPayment(*request.Amount, *request.AnnualRate, *request.MonthlyPayment); ok {
			value = term
		}
	}
	metrics.SolverCalls.WithLabelValues("term", metrics.Outcome(value != nil)).Inc()

	response.Success(w, domain.CalculatorResponse{Value: value})
}

// Amount handles POST /api/v1/calculator/amount
func (h *CalculatorHandler) Amount(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculatorRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	var value interface{}
	if request.AnnualRate != nil && request.TermMonths != nil && request.MonthlyPayment != nil {
		if amount, ok := credit.CalculateAmountFromPayment(*request.AnnualRate, *request.TermMonths, *request.MonthlyPayment); ok {
			value = amount
		}
	}
	metrics.SolverCalls.WithLabelValues("amount", metrics.Outcome(value != nil)).Inc()

	response.Success(w, domain.CalculatorResponse{Value: value})
}
