package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/config"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/credit"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/lock"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/metrics"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/repository"
	customError "github.com/sixxset5-star/crm-desktop-sub000/pkg/errors"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
)

// CreditService loads loans, runs the schedule engine on them and saves the
// result. Every write of a loan happens under that loan's lock.
type CreditService struct {
	loanRepo     repository.LoanRepository
	scheduleRepo repository.ScheduleRepository
	locker       lock.Locker
	config       *config.Config
	logger       *zap.Logger
	now          func() time.Time
}

func NewCreditService(
	loanRepo repository.LoanRepository,
	scheduleRepo repository.ScheduleRepository,
	locker lock.Locker,
	config *config.Config,
	logger *zap.Logger,
) *CreditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditService{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		locker:       locker,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock, mostly for tests
func (s *CreditService) WithClock(now func() time.Time) *CreditService {
	s.now = now
	return s
}

func (s *CreditService) today() domain.Date {
	return domain.DateOf(s.now())
}

// CreateLoan stores a new loan and, when its parameters are complete, its schedule
func (s *CreditService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []domain.ScheduleItem, error) {
	params := domain.LoanParams{
		ScheduleType: request.ScheduleType,
		Amount:       optional.FromPtr(request.Amount),
		AnnualRate:   optional.FromPtr(request.AnnualRate),
		TermMonths:   optional.FromPtr(request.TermMonths),
		StartDate:    optional.FromPtr(request.StartDate),
		PaymentDay:   optional.FromPtr(request.PaymentDay),
	}
	if params.ScheduleType == "" {
		params.ScheduleType = s.config.GetDefaultScheduleType()
	}

	payment := optional.FromPtr(request.MonthlyPayment)
	if err := validateParams(params, payment); err != nil {
		return nil, nil, err
	}

	params, payment = s.resolve(params, payment, request.InputMode)

	now := s.now().UTC()
	loan := domain.Loan{
		ID:             uuid.New(),
		Name:           request.Name,
		Description:    request.Description,
		Notes:          request.Notes,
		MonthlyPayment: payment,
		Status:         domain.LoanStatusActive,
		InputMode:      request.InputMode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}.WithParams(params)

	schedule := s.build(params)
	loan.CurrentBalance = credit.RecalculateCurrentBalance(loan, schedule)

	if err := s.loanRepo.Create(ctx, &loan); err != nil {
		return nil, nil, err
	}
	if err := s.scheduleRepo.Replace(ctx, loan.ID, schedule); err != nil {
		return nil, nil, err
	}

	s.logger.Info("loan created",
		zap.String("op", "CreateLoan"),
		zap.String("loan_id", loan.ID.String()),
		zap.Int("months", len(schedule)),
	)

	return &loan, schedule, nil
}

// GetLoan returns a loan together with its schedule
func (s *CreditService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, []domain.ScheduleItem, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	schedule, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	return loan, schedule, nil
}

// ListLoans returns loans filtered by status; empty status lists all
func (s *CreditService) ListLoans(ctx context.Context, status string) ([]*domain.Loan, error) {
	if status != "" && status != domain.LoanStatusActive && status != domain.LoanStatusArchived {
		return nil, customError.WrapInvalidLoanParams("unknown status " + status)
	}
	return s.loanRepo.List(ctx, status)
}

// GetSchedule returns the schedule of an existing loan
func (s *CreditService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]domain.ScheduleItem, error) {
	_, schedule, err := s.GetLoan(ctx, loanID)
	return schedule, err
}

// UpdateLoanParams applies a parameter patch and rebuilds the schedule while
// keeping the payment history of months that still exist
func (s *CreditService) UpdateLoanParams(ctx context.Context, loanID uuid.UUID, request *domain.UpdateLoanParamsRequest) (*domain.Loan, []domain.ScheduleItem, error) {
	var (
		updated  *domain.Loan
		rebuilt  []domain.ScheduleItem
		patch    = request.Params()
		payPatch = optional.FromPtr(request.MonthlyPayment)
	)

	if err := validateParams(patch, payPatch); err != nil {
		return nil, nil, err
	}

	err := s.withLoanLock(ctx, loanID, func() error {
		loan, schedule, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}

		mode := loan.InputMode
		if request.InputMode != "" {
			mode = request.InputMode
		}
		merged := loan.Params().Merge(patch)
		merged, payment := s.resolve(merged, payPatch.Or(loan.MonthlyPayment), mode)

		rebuilt, err = credit.RebuildAfterChange(*loan, schedule, merged)
		if err != nil {
			metrics.Rebuilds.WithLabelValues(metrics.OutcomeError).Inc()
			return err
		}
		metrics.Rebuilds.WithLabelValues(metrics.Outcome(len(rebuilt) > 0)).Inc()

		if lost := credit.LostPaidMonths(schedule, rebuilt); len(lost) > 0 {
			s.logger.Warn("paid months dropped by schedule rebuild",
				zap.String("op", "UpdateLoanParams"),
				zap.String("loan_id", loanID.String()),
				zap.Ints("months", lost),
			)
		}

		next := loan.WithParams(merged)
		next.MonthlyPayment = payment
		next.InputMode = mode
		next.CurrentBalance = credit.RecalculateCurrentBalance(next, rebuilt)
		next.UpdatedAt = s.now().UTC()

		if err := s.scheduleRepo.Replace(ctx, loanID, rebuilt); err != nil {
			return err
		}
		if err := s.loanRepo.Update(ctx, &next); err != nil {
			return err
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return updated, rebuilt, nil
}

// TogglePayment flips the paid state of one schedule row. Archived loans are read-only.
func (s *CreditService) TogglePayment(ctx context.Context, loanID uuid.UUID, index int, request *domain.TogglePaymentRequest) (*domain.Loan, []domain.ScheduleItem, error) {
	var (
		updated *domain.Loan
		toggled []domain.ScheduleItem
	)

	err := s.withLoanLock(ctx, loanID, func() error {
		loan, schedule, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if !loan.IsActive() {
			return customError.WrapLoanArchived(loanID.String())
		}

		var paidAmount optional.Value[decimal.Decimal]
		if request != nil {
			paidAmount = optional.FromPtr(request.PaidAmount)
		}

		toggled, err = credit.ApplyPayment(schedule, index, paidAmount, s.today())
		if err != nil {
			return err
		}

		direction := "unpaid"
		if toggled[index].Paid {
			direction = "paid"
		}
		metrics.PaymentToggles.WithLabelValues(direction).Inc()

		next := *loan
		next.CurrentBalance = credit.RecalculateCurrentBalance(next, toggled)
		next.UpdatedAt = s.now().UTC()

		if err := s.scheduleRepo.Replace(ctx, loanID, toggled); err != nil {
			return err
		}
		if err := s.loanRepo.Update(ctx, &next); err != nil {
			return err
		}

		s.logger.Debug("payment toggled",
			zap.String("op", "TogglePayment"),
			zap.String("loan_id", loanID.String()),
			zap.Int("month", toggled[index].MonthNumber),
			zap.String("direction", direction),
		)

		updated = &next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return updated, toggled, nil
}

// GetSummary aggregates the schedule of a loan
func (s *CreditService) GetSummary(ctx context.Context, loanID uuid.UUID) (domain.CreditSummary, error) {
	loan, schedule, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return domain.CreditSummary{}, err
	}
	return credit.CalculateCreditSummary(*loan, schedule), nil
}

// SetStatus archives or reactivates a loan without touching its schedule
func (s *CreditService) SetStatus(ctx context.Context, loanID uuid.UUID, status string) (*domain.Loan, error) {
	if status != domain.LoanStatusActive && status != domain.LoanStatusArchived {
		return nil, customError.WrapInvalidLoanParams("unknown status " + status)
	}

	var updated *domain.Loan
	err := s.withLoanLock(ctx, loanID, func() error {
		loan, err := s.loanRepo.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status == status {
			updated = loan
			return nil
		}

		loan.Status = status
		loan.UpdatedAt = s.now().UTC()
		if err := s.loanRepo.Update(ctx, loan); err != nil {
			return err
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpcomingPayments lists unpaid rows of active loans due within daysAhead days
// of today. A negative daysAhead means the caller has no window of its own and
// the configured UPCOMING_DAYS_AHEAD is used instead; it is not rejected. The
// HTTP handler passes -1 when the days parameter is absent.
func (s *CreditService) UpcomingPayments(ctx context.Context, daysAhead int) ([]domain.UpcomingPayment, error) {
	if daysAhead < 0 {
		daysAhead = s.config.Business.UpcomingDaysAhead
	}

	loans, err := s.loanRepo.List(ctx, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(loans))
	values := make([]domain.Loan, 0, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.ID)
		values = append(values, *loan)
	}

	schedules, err := s.scheduleRepo.GetByLoanIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return credit.GetUpcomingPayments(values, schedules, daysAhead, s.today()), nil
}

// resolve fills the field derived by the input mode. In payment mode an
// unresolvable payment is cleared rather than left stale.
func (s *CreditService) resolve(params domain.LoanParams, payment optional.Value[decimal.Decimal], mode domain.InputMode) (domain.LoanParams, optional.Value[decimal.Decimal]) {
	solver := string(mode)
	if mode == "" {
		solver = string(domain.InputModePayment)
	}

	resolved, ok := credit.ResolveSmartInput(credit.SmartInput{Params: params, MonthlyPayment: payment, Mode: mode})
	metrics.SolverCalls.WithLabelValues(solver, metrics.Outcome(ok)).Inc()

	if !ok {
		if solver == string(domain.InputModePayment) {
			payment = optional.None[decimal.Decimal]()
		}
		return params, payment
	}
	return resolved.Params, resolved.MonthlyPayment
}

func (s *CreditService) build(params domain.LoanParams) []domain.ScheduleItem {
	schedule := credit.BuildSchedule(params)
	metrics.SchedulesBuilt.WithLabelValues(string(params.ScheduleType.OrDefault()), metrics.Outcome(len(schedule) > 0)).Inc()
	return schedule
}

func (s *CreditService) withLoanLock(ctx context.Context, loanID uuid.UUID, fn func() error) error {
	key := lock.LoanKey(loanID.String())

	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		var be *customError.BusinessError
		if errors.As(err, &be) {
			return err
		}
		return customError.WrapLockError(key, err)
	}
	defer unlock()

	return fn()
}

// validateParams rejects values that are present but can never be valid.
// Missing values are fine: the loan is a draft until they arrive.
func validateParams(p domain.LoanParams, payment optional.Value[decimal.Decimal]) error {
	if !p.ScheduleType.Valid() {
		return customError.WrapInvalidLoanParams("unknown schedule type " + string(p.ScheduleType))
	}
	if amount, ok := p.Amount.Get(); ok && !amount.IsPositive() {
		return customError.WrapInvalidLoanParams("amount must be positive")
	}
	if rate, ok := p.AnnualRate.Get(); ok && rate.IsNegative() {
		return customError.WrapInvalidLoanParams("annual rate must not be negative")
	}
	if term, ok := p.TermMonths.Get(); ok && term <= 0 {
		return customError.WrapInvalidLoanParams("term must be at least one month")
	}
	if term, ok := p.TermMonths.Get(); ok && term > domain.MaxTermMonths {
		return customError.WrapInvalidLoanParams(fmt.Sprintf("term must not exceed %d months", domain.MaxTermMonths))
	}
	if day, ok := p.PaymentDay.Get(); ok && (day < 1 || day > 31) {
		return customError.WrapInvalidLoanParams("payment day must be between 1 and 31")
	}
	if value, ok := payment.Get(); ok && !value.IsPositive() {
		return customError.WrapInvalidLoanParams("monthly payment must be positive")
	}
	return nil
}
