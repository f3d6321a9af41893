package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
	"github.com/sixxset5-star/crm-desktop-sub000/tests/mocks"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter() (http.Handler, *mocks.MockCreditService) {
	service := mocks.NewMockCreditService()
	router := NewRouter(NewCreditHandler(service), NewCalculatorHandler(), nil, zap.NewNop())
	return router, service
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestCreateLoan(t *testing.T) {
	router, service := setupRouter()
	loan := &domain.Loan{ID: uuid.New(), Name: "Car", Status: domain.LoanStatusActive}

	service.On("CreateLoan", mock.Anything, mock.MatchedBy(func(r *domain.CreateLoanRequest) bool {
		return r.Name == "Car" &&
			r.Amount != nil && r.Amount.Equal(decimal.NewFromInt(120000)) &&
			r.AnnualRate != nil && r.AnnualRate.IsZero() &&
			r.StartDate != nil && r.StartDate.String() == "2024-01-31"
	})).Return(loan, []domain.ScheduleItem{}, nil)

	rec, env := do(t, router, http.MethodPost, "/api/v1/loans",
		`{"name":"Car","amount":"120000","annual_rate":0,"term_months":12,"start_date":"2024-01-31"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var data domain.LoanResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, loan.ID, data.Loan.ID)
	service.AssertExpectations(t)
}

func TestCreateLoan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"amount":"1000"}`},
		{name: "bad schedule type", body: `{"name":"x","schedule_type":"balloon"}`},
		{name: "payment day out of range", body: `{"name":"x","payment_day":40}`},
		{name: "term too long", body: `{"name":"x","term_months":1201}`},
		{name: "bad date", body: `{"name":"x","start_date":"31/01/2024"}`},
		{name: "not json", body: `name=x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, service := setupRouter()

			rec, env := do(t, router, http.MethodPost, "/api/v1/loans", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			service.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
		})
	}
}

func TestGetLoan_Errors(t *testing.T) {
	router, service := setupRouter()
	missing := uuid.New()

	service.On("GetLoan", mock.Anything, missing).Return(nil, nil, customError.WrapLoanNotFound(missing.String()))

	rec, _ := do(t, router, http.MethodGet, "/api/v1/loans/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, router, http.MethodGet, "/api/v1/loans/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, customError.ErrCodeLoanNotFound, env.Code)
}

func TestTogglePayment(t *testing.T) {
	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID}

	t.Run("without body records planned payment", func(t *testing.T) {
		router, service := setupRouter()
		service.On("TogglePayment", mock.Anything, loanID, 2, mock.MatchedBy(func(r *domain.TogglePaymentRequest) bool {
			return r.PaidAmount == nil
		})).Return(loan, []domain.ScheduleItem{}, nil)

		rec, _ := do(t, router, http.MethodPost, "/api/v1/loans/"+loanID.String()+"/schedule/2/toggle", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("custom amount", func(t *testing.T) {
		router, service := setupRouter()
		service.On("TogglePayment", mock.Anything, loanID, 0, mock.MatchedBy(func(r *domain.TogglePaymentRequest) bool {
			return r.PaidAmount != nil && r.PaidAmount.Equal(decimal.RequireFromString("500.5"))
		})).Return(loan, []domain.ScheduleItem{}, nil)

		rec, _ := do(t, router, http.MethodPost, "/api/v1/loans/"+loanID.String()+"/schedule/0/toggle", `{"paid_amount":"500.5"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("archived loan", func(t *testing.T) {
		router, service := setupRouter()
		service.On("TogglePayment", mock.Anything, loanID, 0, mock.Anything).
			Return(nil, nil, customError.WrapLoanArchived(loanID.String()))

		rec, env := do(t, router, http.MethodPost, "/api/v1/loans/"+loanID.String()+"/schedule/0/toggle", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, customError.ErrCodeLoanArchived, env.Code)
	})

	t.Run("non numeric index", func(t *testing.T) {
		router, service := setupRouter()

		rec, _ := do(t, router, http.MethodPost, "/api/v1/loans/"+loanID.String()+"/schedule/first/toggle", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "TogglePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateParams_ZeroRateIsSent(t *testing.T) {
	router, service := setupRouter()
	loanID := uuid.New()

	service.On("UpdateLoanParams", mock.Anything, loanID, mock.MatchedBy(func(r *domain.UpdateLoanParamsRequest) bool {
		p := r.Params()
		rate, ok := p.AnnualRate.Get()
		return ok && rate.IsZero() && !p.Amount.IsSet()
	})).Return(&domain.Loan{ID: loanID}, []domain.ScheduleItem{}, nil)

	rec, _ := do(t, router, http.MethodPatch, "/api/v1/loans/"+loanID.String()+"/params", `{"annual_rate":"0"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestUpdateParams_TermTooLong(t *testing.T) {
	router, service := setupRouter()

	rec, _ := do(t, router, http.MethodPatch, "/api/v1/loans/"+uuid.New().String()+"/params", `{"term_months":1201}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "UpdateLoanParams", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpcomingPayments(t *testing.T) {
	router, service := setupRouter()
	service.On("UpcomingPayments", mock.Anything, -1).Return([]domain.UpcomingPayment{}, nil).Once()
	service.On("UpcomingPayments", mock.Anything, 14).Return([]domain.UpcomingPayment{}, nil).Once()

	rec, _ := do(t, router, http.MethodGet, "/api/v1/payments/upcoming", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/v1/payments/upcoming?days=14", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/v1/payments/upcoming?days=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	service.AssertExpectations(t)
}

func TestCalculator(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		expected string
	}{
		{name: "payment", path: "payment", body: `{"amount":"120000","annual_rate":"12","term_months":12}`, expected: `"10661.85"`},
		{name: "payment missing term", path: "payment", body: `{"amount":"120000","annual_rate":"12"}`, expected: `null`},
		{name: "term", path: "term", body: `{"amount":"120000","annual_rate":"12","monthly_payment":"5000"}`, expected: `28`},
		{name: "term infeasible", path: "term", body: `{"amount":"120000","annual_rate":"12","monthly_payment":"1000"}`, expected: `null`},
		{name: "amount zero rate", path: "amount", body: `{"annual_rate":"0","term_months":12,"monthly_payment":"100"}`, expected: `"1200"`},
		{name: "schedule incomplete", path: "schedule", body: `{"amount":"1000","term_months":12}`, expected: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter()

			rec, env := do(t, router, http.MethodPost, "/api/v1/calculator/"+tt.path, tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			var data struct {
				Value json.RawMessage `json:"value"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.JSONEq(t, tt.expected, string(data.Value))
		})
	}
}

func TestCalculator_RejectsOversizedTerm(t *testing.T) {
	for _, path := range []string{"schedule", "payment", "amount"} {
		t.Run(path, func(t *testing.T) {
			router, _ := setupRouter()

			rec, env := do(t, router, http.MethodPost, "/api/v1/calculator/"+path,
				`{"amount":"120000","annual_rate":"12","term_months":3000000000,"monthly_payment":"100","start_date":"2024-01-01"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestCalculator_ScheduleRows(t *testing.T) {
	router, _ := setupRouter()

	_, env := do(t, router, http.MethodPost, "/api/v1/calculator/schedule",
		`{"schedule_type":"differentiated","amount":"120000","annual_rate":"12","term_months":12,"start_date":"2024-01-01"}`)

	var data struct {
		Value []domain.ScheduleItem `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Value, 12)
	assert.Equal(t, "11200.00", data.Value[0].PlannedPayment.StringFixed(2))
	assert.False(t, data.Value[0].PaidAmount.IsSet())
}
