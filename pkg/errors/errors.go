package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanArchived         = errors.New("loan is archived")
	ErrInvalidLoanParams    = errors.New("invalid loan parameters")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrInvalidScheduleIndex = errors.New("schedule index out of range")
	ErrMalformedSchedule    = errors.New("malformed schedule")
	ErrScheduleTypeLocked   = errors.New("schedule type cannot change once payments are recorded")
	ErrLockNotAcquired      = errors.New("loan is locked by another writer")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeLoanArchived         = "LOAN_ARCHIVED"
	ErrCodeInvalidLoanParams    = "INVALID_LOAN_PARAMS"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeInvalidScheduleIndex = "INVALID_SCHEDULE_INDEX"
	ErrCodeMalformedSchedule    = "MALFORMED_SCHEDULE"
	ErrCodeScheduleTypeLocked   = "SCHEDULE_TYPE_LOCKED"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeLockError            = "LOCK_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanArchived(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanArchived,
		fmt.Sprintf("Loan with ID %s is archived", loanID),
		ErrLoanArchived,
	)
}

func WrapInvalidLoanParams(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanParams,
		reason,
		ErrInvalidLoanParams,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapInvalidScheduleIndex(index, length int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidScheduleIndex,
		fmt.Sprintf("Schedule index %d is outside [0, %d)", index, length),
		ErrInvalidScheduleIndex,
	)
}

func WrapMalformedSchedule(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeMalformedSchedule,
		reason,
		ErrMalformedSchedule,
	)
}

func WrapScheduleTypeLocked(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleTypeLocked,
		fmt.Sprintf("Cannot change schedule type from %s to %s with paid months", from, to),
		ErrScheduleTypeLocked,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapLockError(key string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeLockError,
		fmt.Sprintf("could not lock %s", key),
		err,
	)
}

// HTTPStatus maps an error to the status code the API answers with
func HTTPStatus(err error) int {
	var be *BusinessError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}

	switch be.Code {
	case ErrCodeLoanNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidLoanParams, ErrCodeInvalidPaymentAmount, ErrCodeInvalidScheduleIndex, ErrCodeMalformedSchedule:
		return http.StatusBadRequest
	case ErrCodeLoanArchived, ErrCodeScheduleTypeLocked, ErrCodeLockError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
