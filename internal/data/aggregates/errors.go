package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/domain/billing"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrInvariant indicates a stored-state rule would be broken.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates a guarded write lost to a concurrent writer.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates a transient store failure.
	ErrRetryable = errors.New("aggregate retryable")
)

func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func InvariantError(msg string) error {
	return errors.Join(ErrInvariant, errors.New(strings.TrimSpace(msg)))
}

// ConflictError tags a lost compare-and-set. It surfaces as a transaction failure.
func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

func RetryableError(msg string) error {
	return errors.Join(ErrRetryable, errors.New(strings.TrimSpace(msg)))
}

// sentinelCodes is checked in order; the first match wins.
var sentinelCodes = []struct {
	target error
	code   domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeValidation},
	{ErrInvariant, domainagg.CodeInvariantViolation},
	{billing.ErrMoneyOverflow, domainagg.CodeInvariantViolation},
	{billing.ErrMoneyNegative, domainagg.CodeInvariantViolation},
	{billing.ErrJobAlreadyPaid, domainagg.CodeJobAlreadyPaid},
	{ErrConflict, domainagg.CodeTransactionFailure},
	{ErrRetryable, domainagg.CodeTransactionFailure},
	{context.Canceled, domainagg.CodeTransactionFailure},
	{context.DeadlineExceeded, domainagg.CodeTransactionFailure},
	{gorm.ErrRecordNotFound, domainagg.CodeInternal},
}

// SQLSTATE classes from postgres.
var pgStateCodes = map[string]domainagg.ErrorCode{
	"23503": domainagg.CodeInvariantViolation, // foreign_key_violation
	"23505": domainagg.CodeInvariantViolation, // unique_violation
	"23514": domainagg.CodeInvariantViolation, // check_violation
	"40001": domainagg.CodeTransactionFailure, // serialization_failure
	"40P01": domainagg.CodeTransactionFailure, // deadlock_detected
	"55P03": domainagg.CodeTransactionFailure, // lock_not_available
	"57014": domainagg.CodeTransactionFailure, // query_canceled
}

// sqlite reports failures as plain text.
var messageCodes = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"check constraint", domainagg.CodeInvariantViolation},
	{"foreign key constraint", domainagg.CodeInvariantViolation},
	{"database is locked", domainagg.CodeTransactionFailure},
	{"deadlock", domainagg.CodeTransactionFailure},
	{"serialization", domainagg.CodeTransactionFailure},
	{"timeout", domainagg.CodeTransactionFailure},
	{"busy", domainagg.CodeTransactionFailure},
	{"temporar", domainagg.CodeTransactionFailure},
}

// MapError gives err an aggregate error code. Errors that already carry one pass through unchanged.
func MapError(op string, err error) error {
	if err == nil || domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.target) {
			return s.code
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgStateCodes[pgErr.Code]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range messageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return domainagg.CodeInternal
}
