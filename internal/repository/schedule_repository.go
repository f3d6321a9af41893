package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
)

const scheduleColumns = `loan_id, month_number, payment_date, planned_payment, interest_part, principal_part,
	remaining_balance, paid, paid_amount, paid_at`

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.ScheduleItem, error) {
	query := r.db.Rebind(`
		SELECT ` + scheduleColumns + `
		FROM schedule_items
		WHERE loan_id = ?
		ORDER BY month_number
	`)

	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, loanID.String()); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	items := make([]domain.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}

	return items, nil
}

func (r *scheduleRepository) GetByLoanIDs(ctx context.Context, loanIDs []uuid.UUID) (map[uuid.UUID][]domain.ScheduleItem, error) {
	schedules := make(map[uuid.UUID][]domain.ScheduleItem, len(loanIDs))
	if len(loanIDs) == 0 {
		return schedules, nil
	}

	ids := make([]string, 0, len(loanIDs))
	for _, id := range loanIDs {
		ids = append(ids, id.String())
	}

	query, args, err := sqlx.In(`
		SELECT `+scheduleColumns+`
		FROM schedule_items
		WHERE loan_id IN (?)
		ORDER BY loan_id, month_number
	`, ids)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for _, row := range rows {
		id, err := uuid.Parse(row.LoanID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		schedules[id] = append(schedules[id], row.toDomain())
	}

	return schedules, nil
}

func (r *scheduleRepository) Replace(ctx context.Context, loanID uuid.UUID, items []domain.ScheduleItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM schedule_items WHERE loan_id = ?`), loanID.String()); err != nil {
		return customError.WrapDatabaseError(err)
	}

	insert := tx.Rebind(`
		INSERT INTO schedule_items (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	for _, item := range items {
		row := newScheduleRow(loanID, item)
		_, err = tx.ExecContext(ctx, insert,
			row.LoanID,
			row.MonthNumber,
			row.PaymentDate,
			row.PlannedPayment,
			row.InterestPart,
			row.PrincipalPart,
			row.RemainingBalance,
			row.Paid,
			row.PaidAmount,
			row.PaidAt,
		)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}
