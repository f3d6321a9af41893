package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
)

type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []domain.ScheduleItem, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]domain.ScheduleItem), args.Error(2)
}

func (m *MockCreditService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, []domain.ScheduleItem, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]domain.ScheduleItem), args.Error(2)
}

func (m *MockCreditService) ListLoans(ctx context.Context, status string) ([]*domain.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockCreditService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]domain.ScheduleItem, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleItem), args.Error(1)
}

func (m *MockCreditService) UpdateLoanParams(ctx context.Context, loanID uuid.UUID, request *domain.UpdateLoanParamsRequest) (*domain.Loan, []domain.ScheduleItem, error) {
	args := m.Called(ctx, loanID, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]domain.ScheduleItem), args.Error(2)
}

func (m *MockCreditService) TogglePayment(ctx context.Context, loanID uuid.UUID, index int, request *domain.TogglePaymentRequest) (*domain.Loan, []domain.ScheduleItem, error) {
	args := m.Called(ctx, loanID, index, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]domain.ScheduleItem), args.Error(2)
}

func (m *MockCreditService) GetSummary(ctx context.Context, loanID uuid.UUID) (domain.CreditSummary, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(domain.CreditSummary), args.Error(1)
}

func (m *MockCreditService) SetStatus(ctx context.Context, loanID uuid.UUID, status string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockCreditService) UpcomingPayments(ctx context.Context, daysAhead int) ([]domain.UpcomingPayment, error) {
	args := m.Called(ctx, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UpcomingPayment), args.Error(1)
}

// NewMockCreditService creates a new mock credit service instance
func NewMockCreditService() *MockCreditService {
	return &MockCreditService{}
}
