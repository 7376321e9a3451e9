package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/contractpay-backend/internal/domain/billing"
)

var DepositAggregateContract = Contract{
	Name:      "Billing.DepositAggregate",
	Op:        "Billing.Deposit.DepositToClient",
	LockOrder: []Resource{ResourceProfiles},
	Writes:    []Resource{ResourceProfiles},
	OwnsTx:    true,
	Summary:   "Credits a client balance, capped at a quarter of the client's unpaid job total, in one transaction.",
}

// The largest allowed deposit is DepositCapNumerator/DepositCapDenominator of outstanding unpaid work.
const (
	DepositCapNumerator   = 1
	DepositCapDenominator = 4
)

// DepositAggregate owns client balance top-ups.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodeUnknownUser, CodeInvalidActorRole, CodeDepositExceedsCap,
// CodeInvariantViolation, CodeTransactionFailure, CodeInternal.
type DepositAggregate interface {
	Aggregate

	// DepositToClient credits Amount to the target client's balance.
	DepositToClient(ctx context.Context, in DepositInput) (DepositResult, error)
}

type DepositInput struct {
	TargetProfileID uuid.UUID
	Amount          billing.Money
	DepositedAt     time.Time
}

type DepositResult struct {
	ProfileID   uuid.UUID
	Amount      billing.Money
	Balance     billing.Money
	Outstanding billing.Money
	DepositedAt time.Time
}

// DepositWithinCap reports whether amount/outstanding <= 1/4, evaluated exactly in integers.
// With nothing outstanding the cap is zero, so no positive deposit fits.
func DepositWithinCap(amount, outstanding billing.Money) bool {
	if amount <= 0 || outstanding <= 0 {
		return false
	}
	// floor(outstanding/4) is the largest whole amount with 4*amount <= outstanding; no multiply, no overflow.
	return amount <= MaxDeposit(outstanding)
}

// MaxDeposit is the largest deposit DepositWithinCap accepts for the given outstanding total.
func MaxDeposit(outstanding billing.Money) billing.Money {
	if outstanding <= 0 {
		return 0
	}
	return billing.Money(int64(outstanding) * DepositCapNumerator / DepositCapDenominator)
}
