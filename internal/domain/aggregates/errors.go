package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode is the closed set of failures a payment or deposit can end with.
// Transports map codes to their own status values.
type ErrorCode string

const (
	CodeValidation          ErrorCode = "validation"
	CodeInvalidActorRole    ErrorCode = "invalid_actor_role"
	CodeJobNotOwnedByActor  ErrorCode = "job_not_owned_by_actor"
	CodeJobAlreadyPaid      ErrorCode = "job_already_paid"
	CodeInsufficientBalance ErrorCode = "insufficient_balance"
	CodeUnknownUser         ErrorCode = "unknown_user"
	CodeDepositExceedsCap   ErrorCode = "deposit_exceeds_cap"
	CodeTransactionFailure  ErrorCode = "transaction_failure"
	CodeInvariantViolation  ErrorCode = "invariant_violation"
	CodeInternal            ErrorCode = "internal"
)

type codeTraits struct {
	precondition bool
	retryable    bool
	summary      string
}

// No code leaves a partial mutation behind, so only a transaction failure can succeed on a plain retry.
var traits = map[ErrorCode]codeTraits{
	CodeValidation:          {precondition: true, summary: "invalid request"},
	CodeInvalidActorRole:    {precondition: true, summary: "profile type not allowed for this operation"},
	CodeJobNotOwnedByActor:  {precondition: true, summary: "job not found for this client"},
	CodeJobAlreadyPaid:      {precondition: true, summary: "job already paid"},
	CodeInsufficientBalance: {precondition: true, summary: "insufficient balance"},
	CodeUnknownUser:         {precondition: true, summary: "profile not found"},
	CodeDepositExceedsCap:   {precondition: true, summary: "deposit exceeds 25% of unpaid jobs"},
	CodeTransactionFailure:  {retryable: true, summary: "transaction failed, retry"},
	CodeInvariantViolation:  {summary: "stored data would become inconsistent"},
	CodeInternal:            {summary: "internal error"},
}

func (c ErrorCode) Retryable() bool { return traits[c].retryable }

// IsPrecondition is true for business rule rejections, false for store-side failures.
func (c ErrorCode) IsPrecondition() bool { return traits[c].precondition }

// Summary is a client-safe description of the code.
func (c ErrorCode) Summary() string {
	if t, ok := traits[c]; ok {
		return t.summary
	}
	return traits[CodeInternal].summary
}

// Error carries a code, the aggregate op that raised it and an optional cause.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Message != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Message)
	}
	if b.Len() == 0 {
		return string(e.Code)
	}
	b.WriteString(" (" + string(e.Code) + ")")
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message), Cause: cause}
}

// Wrap gives err a code, reusing its text as the message. Nil stays nil.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Code
	}
	return ""
}
