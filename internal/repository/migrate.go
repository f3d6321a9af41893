package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// columnTypes fills the decimal column placeholders per driver. SQLite keeps
// decimals as TEXT so the exact representation survives a round trip.
var columnTypes = map[string]*strings.Replacer{
	"sqlite3":  strings.NewReplacer("{{money}}", "TEXT", "{{rate}}", "TEXT"),
	"postgres": strings.NewReplacer("{{money}}", "NUMERIC(18,2)", "{{rate}}", "NUMERIC(9,4)"),
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS loans (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		schedule_type   TEXT NOT NULL DEFAULT '',
		amount          {{money}},
		annual_rate     {{rate}},
		term_months     INTEGER,
		start_date      DATE,
		payment_day     INTEGER,
		monthly_payment {{money}},
		current_balance {{money}} NOT NULL,
		status          TEXT NOT NULL DEFAULT 'active',
		input_mode      TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_status ON loans (status)`,
	`CREATE TABLE IF NOT EXISTS schedule_items (
		loan_id           TEXT NOT NULL REFERENCES loans (id) ON DELETE CASCADE,
		month_number      INTEGER NOT NULL,
		payment_date      DATE NOT NULL,
		planned_payment   {{money}} NOT NULL,
		interest_part     {{money}} NOT NULL,
		principal_part    {{money}} NOT NULL,
		remaining_balance {{money}} NOT NULL,
		paid              BOOLEAN NOT NULL DEFAULT FALSE,
		paid_amount       {{money}},
		paid_at           DATE,
		PRIMARY KEY (loan_id, month_number)
	)`,
}

// Migrate creates the tables the repositories need. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	types, ok := columnTypes[db.DriverName()]
	if !ok {
		return fmt.Errorf("unsupported driver %q", db.DriverName())
	}

	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, types.Replace(m)); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
