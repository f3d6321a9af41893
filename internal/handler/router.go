package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sixxset5-star/crm-desktop-sub000/pkg/response"
)

// NewRouter wires every endpoint of the server
func NewRouter(credit *CreditHandler, calculator *CalculatorHandler, health *HealthHandler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger), response.CORSMiddleware)

	// Health check
	if health != nil {
		router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
		router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)
	}
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", credit.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", credit.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}", credit.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/params", credit.UpdateParams).Methods(http.MethodPatch)
	api.HandleFunc("/loans/{loanId}/status", credit.SetStatus).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/schedule", credit.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/schedule/{index}/toggle", credit.TogglePayment).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/summary", credit.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/payments/upcoming", credit.UpcomingPayments).Methods(http.MethodGet)

	api.HandleFunc("/calculator/schedule", calculator.Schedule).Methods(http.MethodPost)
	api.HandleFunc("/calculator/payment", calculator.Payment).Methods(http.MethodPost)
	api.HandleFunc("/calculator/term", calculator.Term).Methods(http.MethodPost)
	api.HandleFunc("/calculator/amount", calculator.Amount).Methods(http.MethodPost)

	return router
}
