package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/contractpay-backend/internal/domain/billing"
)

var PaymentAggregateContract = Contract{
	Name:      "Billing.PaymentAggregate",
	Op:        "Billing.Payment.PayForJob",
	LockOrder: []Resource{ResourceJobs, ResourceProfiles},
	Writes:    []Resource{ResourceProfiles, ResourceJobs},
	OwnsTx:    true,
	Summary:   "Moves a job price from client to contractor and marks the job paid in one transaction.",
}

// PaymentAggregate owns the job payment transition and the two balance movements tied to it.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodeUnknownUser, CodeInvalidActorRole, CodeJobNotOwnedByActor, CodeJobAlreadyPaid,
// CodeInsufficientBalance, CodeInvariantViolation, CodeTransactionFailure, CodeInternal.
type PaymentAggregate interface {
	Aggregate

	// PayForJob debits the acting client, credits the job's contractor and marks the job paid.
	PayForJob(ctx context.Context, in PayForJobInput) (PayForJobResult, error)
}

type PayForJobInput struct {
	ActorProfileID uuid.UUID
	JobID          uuid.UUID
	// PaidAt defaults to the current time.
	PaidAt time.Time
}

type PayForJobResult struct {
	JobID             uuid.UUID
	ContractID        uuid.UUID
	ClientID          uuid.UUID
	ContractorID      uuid.UUID
	Amount            billing.Money
	ClientBalance     billing.Money
	ContractorBalance billing.Money
	PaidAt            time.Time
}
