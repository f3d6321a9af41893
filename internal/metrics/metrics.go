package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	// SchedulesBuilt counts generated schedules
	SchedulesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_schedules_built_total",
			Help: "Number of amortization schedules generated",
		},
		[]string{"schedule_type", "outcome"},
	)

	// SolverCalls counts smart-input solver invocations
	SolverCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_solver_calls_total",
			Help: "Number of smart-input solver calls",
		},
		[]string{"solver", "outcome"},
	)

	// PaymentToggles counts paid/unpaid flips
	PaymentToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_payment_toggles_total",
			Help: "Number of schedule rows marked paid or unpaid",
		},
		[]string{"direction"},
	)

	// Rebuilds counts schedule regenerations after parameter edits
	Rebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_rebuilds_total",
			Help: "Number of schedule rebuilds after a parameter change",
		},
		[]string{"outcome"},
	)

	// RemindersFound counts upcoming payments handed to the notifier
	RemindersFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_reminders_found_total",
			Help: "Number of upcoming payments found by the reminder job",
		},
	)
)

// Outcome maps an ok flag to an outcome label
func Outcome(ok bool) string {
	if ok {
		return OutcomeOK
	}
	return OutcomeEmpty
}
