package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
)

const loanColumns = `id, name, description, notes, schedule_type, amount, annual_rate, term_months,
	start_date, payment_day, monthly_payment, current_balance, status, input_mode, created_at, updated_at`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := r.db.Rebind(`
		INSERT INTO loans (` + loanColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	row := newLoanRow(loan)
	_, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.Name,
		row.Description,
		row.Notes,
		row.ScheduleType,
		row.Amount,
		row.AnnualRate,
		row.TermMonths,
		row.StartDate,
		row.PaymentDay,
		row.MonthlyPayment,
		row.CurrentBalance,
		row.Status,
		row.InputMode,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := r.db.Rebind(`SELECT ` + loanColumns + ` FROM loans WHERE id = ?`)

	var row loanRow
	err := r.db.GetContext(ctx, &row, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return row.toDomain()
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := r.db.Rebind(`
		UPDATE loans
		SET name = ?, description = ?, notes = ?, schedule_type = ?, amount = ?, annual_rate = ?,
			term_months = ?, start_date = ?, payment_day = ?, monthly_payment = ?, current_balance = ?,
			status = ?, input_mode = ?, updated_at = ?
		WHERE id = ?
	`)

	row := newLoanRow(loan)
	result, err := r.db.ExecContext(ctx, query,
		row.Name,
		row.Description,
		row.Notes,
		row.ScheduleType,
		row.Amount,
		row.AnnualRate,
		row.TermMonths,
		row.StartDate,
		row.PaymentDay,
		row.MonthlyPayment,
		row.CurrentBalance,
		row.Status,
		row.InputMode,
		row.UpdatedAt,
		row.ID,
	)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if affected == 0 {
		return customError.WrapLoanNotFound(row.ID)
	}

	return nil
}

func (r *loanRepository) List(ctx context.Context, status string) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at, name`

	var rows []loanRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	loans := make([]*domain.Loan, 0, len(rows))
	for _, row := range rows {
		loan, err := row.toDomain()
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		loans = append(loans, loan)
	}

	return loans, nil
}
