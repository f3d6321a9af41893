package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// List returns loans with the given status, or all loans when status is empty
	List(ctx context.Context, status string) ([]*domain.Loan, error)
}

// ScheduleRepository defines the interface for schedule data operations
type ScheduleRepository interface {
	// GetByLoanID retrieves the schedule of a loan ordered by month number
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.ScheduleItem, error)

	// GetByLoanIDs retrieves the schedules of several loans at once
	GetByLoanIDs(ctx context.Context, loanIDs []uuid.UUID) (map[uuid.UUID][]domain.ScheduleItem, error)

	// Replace swaps the whole schedule of a loan in one transaction
	Replace(ctx context.Context, loanID uuid.UUID, items []domain.ScheduleItem) error
}
