package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/config"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/metrics"
)

// UpcomingSource lists unpaid payments due soon
type UpcomingSource interface {
	UpcomingPayments(ctx context.Context, daysAhead int) ([]domain.UpcomingPayment, error)
}

// Notifier delivers one reminder
type Notifier interface {
	Notify(ctx context.Context, payment domain.UpcomingPayment) error
}

// LogNotifier writes reminders to the application log
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, payment domain.UpcomingPayment) error {
	n.logger.Info("payment due soon",
		zap.String("loan_id", payment.LoanID.String()),
		zap.String("loan", payment.LoanName),
		zap.Int("month", payment.MonthNumber),
		zap.String("date", payment.PaymentDate.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
	)
	return nil
}

// Reminder runs the upcoming-payments query on a cron schedule and hands
// every result to the notifier
type Reminder struct {
	cron      *cron.Cron
	spec      string
	daysAhead int
	source    UpcomingSource
	notifier  Notifier
	logger    *zap.Logger
	timeout   time.Duration
}

func New(cfg *config.Config, source UpcomingSource, notifier Notifier, logger *zap.Logger) *Reminder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminder{
		cron:      cron.New(cron.WithLocation(cfg.GetSchedulerLocation())),
		spec:      cfg.Scheduler.Cron,
		daysAhead: cfg.Business.UpcomingDaysAhead,
		source:    source,
		notifier:  notifier,
		logger:    logger,
		timeout:   time.Minute,
	}
}

// Start registers the job and blocks until ctx is done
func (r *Reminder) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.spec, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("add reminder job: %w", err)
	}

	r.cron.Start()
	r.logger.Info("reminder scheduler started", zap.String("spec", r.spec), zap.Int("days_ahead", r.daysAhead))

	<-ctx.Done()
	return nil
}

// Stop waits for a running job to finish
func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("reminder scheduler stopped")
}

func (r *Reminder) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	sent, err := r.RunOnce(ctx)
	if err != nil {
		r.logger.Error("reminder job failed", zap.Error(err), zap.Int("sent", sent))
		return
	}
	r.logger.Info("reminder job finished", zap.Int("sent", sent))
}

// RunOnce sends reminders for everything currently due and returns how many
// were delivered. A failing notification is logged and does not stop the rest.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	upcoming, err := r.source.UpcomingPayments(ctx, r.daysAhead)
	if err != nil {
		return 0, fmt.Errorf("load upcoming payments: %w", err)
	}
	metrics.RemindersFound.Add(float64(len(upcoming)))

	sent := 0
	for _, payment := range upcoming {
		if err := r.notifier.Notify(ctx, payment); err != nil {
			r.logger.Warn("reminder not delivered",
				zap.String("loan_id", payment.LoanID.String()),
				zap.Int("month", payment.MonthNumber),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	return sent, nil
}
