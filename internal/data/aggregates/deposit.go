package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	billingrepos "github.com/yungbote/contractpay-backend/internal/data/repos/billing"
	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
)

type DepositAggregateDeps struct {
	Base BaseDeps

	Profiles billingrepos.ProfileRepo
	Jobs     billingrepos.JobRepo
}

type depositAggregate struct {
	deps DepositAggregateDeps
}

func NewDepositAggregate(deps DepositAggregateDeps) domainagg.DepositAggregate {
	deps.Base = deps.Base.withDefaults()
	return &depositAggregate{deps: deps}
}

func (a *depositAggregate) Contract() domainagg.Contract {
	return domainagg.DepositAggregateContract
}

func (a *depositAggregate) DepositToClient(ctx context.Context, in domainagg.DepositInput) (domainagg.DepositResult, error) {
	op := domainagg.DepositAggregateContract.Op
	var out domainagg.DepositResult
	if in.TargetProfileID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing target profile_id", nil)
	}
	if !in.Amount.IsPositive() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "amount must be positive", nil)
	}
	if a.deps.Profiles == nil || a.deps.Jobs == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "deposit aggregate repos not configured", nil)
	}

	at := in.DepositedAt.UTC()
	if in.DepositedAt.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// The row lock is taken before the unpaid sum so a concurrent payment cannot move it.
		target, err := a.deps.Profiles.LockByID(dbc, in.TargetProfileID)
		if err != nil {
			return err
		}
		if target == nil {
			return domainagg.NewError(domainagg.CodeUnknownUser, op, "target profile not found", nil)
		}
		if !target.IsClient() {
			return domainagg.NewError(domainagg.CodeInvalidActorRole, op, "deposits are only accepted for clients", nil)
		}

		outstanding, err := a.deps.Jobs.SumUnpaidForClient(dbc, target.ID)
		if err != nil {
			return err
		}
		if outstanding < 0 {
			return InvariantError("unpaid total is negative")
		}
		if !domainagg.DepositWithinCap(in.Amount, outstanding) {
			return domainagg.NewError(domainagg.CodeDepositExceedsCap, op,
				fmt.Sprintf("deposit %s exceeds cap %s (25%% of unpaid %s)", in.Amount, domainagg.MaxDeposit(outstanding), outstanding), nil)
		}

		next, err := target.Balance.Add(in.Amount)
		if err != nil {
			return err
		}
		ok, err := a.deps.Base.CASGuard.UpdateBalance(dbc, target.ID, target.Balance, next, at)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "client balance changed concurrently"); err != nil {
			return err
		}

		out = domainagg.DepositResult{
			ProfileID:   target.ID,
			Amount:      in.Amount,
			Balance:     next,
			Outstanding: outstanding,
			DepositedAt: at,
		}
		return nil
	})
	if err != nil {
		return domainagg.DepositResult{}, err
	}
	return out, nil
}
