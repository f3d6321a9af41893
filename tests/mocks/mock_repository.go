package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) List(ctx context.Context, status string) ([]*domain.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.ScheduleItem, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleItem), args.Error(1)
}

func (m *MockScheduleRepository) GetByLoanIDs(ctx context.Context, loanIDs []uuid.UUID) (map[uuid.UUID][]domain.ScheduleItem, error) {
	args := m.Called(ctx, loanIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]domain.ScheduleItem), args.Error(1)
}

func (m *MockScheduleRepository) Replace(ctx context.Context, loanID uuid.UUID, items []domain.ScheduleItem) error {
	args := m.Called(ctx, loanID, items)
	return args.Error(0)
}

// MockLocker grants a lock unless an error is programmed and counts releases
type MockLocker struct {
	mock.Mock
	Unlocks int
}

func (m *MockLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.Unlocks++ }, nil
}
