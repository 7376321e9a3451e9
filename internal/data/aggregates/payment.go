package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	billingrepos "github.com/yungbote/contractpay-backend/internal/data/repos/billing"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
)

type PaymentAggregateDeps struct {
	Base BaseDeps

	Profiles  billingrepos.ProfileRepo
	Contracts billingrepos.ContractRepo
	Jobs      billingrepos.JobRepo
}

type paymentAggregate struct {
	deps PaymentAggregateDeps
}

func NewPaymentAggregate(deps PaymentAggregateDeps) domainagg.PaymentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &paymentAggregate{deps: deps}
}

func (a *paymentAggregate) Contract() domainagg.Contract {
	return domainagg.PaymentAggregateContract
}

func (a *paymentAggregate) PayForJob(ctx context.Context, in domainagg.PayForJobInput) (domainagg.PayForJobResult, error) {
	op := domainagg.PaymentAggregateContract.Op
	var out domainagg.PayForJobResult
	if in.ActorProfileID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor profile_id", nil)
	}
	if in.JobID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing job_id", nil)
	}
	if a.deps.Profiles == nil || a.deps.Contracts == nil || a.deps.Jobs == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "payment aggregate repos not configured", nil)
	}

	paidAt := in.PaidAt.UTC()
	if in.PaidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		actor, err := a.deps.Profiles.GetByID(dbc, in.ActorProfileID)
		if err != nil {
			return err
		}
		if actor == nil {
			return domainagg.NewError(domainagg.CodeUnknownUser, op, "acting profile not found", nil)
		}
		if !actor.IsClient() {
			return domainagg.NewError(domainagg.CodeInvalidActorRole, op, "only clients can pay for jobs", nil)
		}

		// Lock order: job row, then profile rows by ascending id.
		job, err := a.deps.Jobs.LockByID(dbc, in.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return domainagg.NewError(domainagg.CodeJobNotOwnedByActor, op, "job not found on any contract of the actor", nil)
		}
		contract, err := a.deps.Contracts.GetByClientAndJob(dbc, actor.ID, job.ID)
		if err != nil {
			return err
		}
		if contract == nil {
			return domainagg.NewError(domainagg.CodeJobNotOwnedByActor, op, "job not found on any contract of the actor", nil)
		}
		if job.Paid {
			return domainagg.NewError(domainagg.CodeJobAlreadyPaid, op, "job already paid", nil)
		}
		if contract.ContractorID == uuid.Nil || contract.ContractorID == contract.ClientID {
			return InvariantError("contract has no distinct contractor")
		}

		locked, err := a.deps.Profiles.LockByIDs(dbc, []uuid.UUID{contract.ClientID, contract.ContractorID})
		if err != nil {
			return err
		}
		var client, contractor *types.Profile
		for _, p := range locked {
			switch p.ID {
			case contract.ClientID:
				client = p
			case contract.ContractorID:
				contractor = p
			}
		}
		if client == nil {
			return InvariantError("client profile missing under lock")
		}
		if contractor == nil {
			return InvariantError("contractor profile missing for contract")
		}

		price := job.Price
		if !price.IsPositive() {
			return InvariantError("job price must be positive")
		}
		if client.Balance < price {
			return domainagg.NewError(domainagg.CodeInsufficientBalance, op,
				fmt.Sprintf("balance %s is below price %s", client.Balance, price), nil)
		}
		clientNext, err := client.Balance.Sub(price)
		if err != nil {
			return err
		}
		contractorNext, err := contractor.Balance.Add(price)
		if err != nil {
			return err
		}
		if err := job.MarkPaid(paidAt); err != nil {
			return err
		}

		guard := a.deps.Base.CASGuard
		ok, err := guard.MarkJobPaid(dbc, job.ID, paidAt)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "job paid state changed concurrently"); err != nil {
			return err
		}
		ok, err = guard.UpdateBalance(dbc, client.ID, client.Balance, clientNext, paidAt)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "client balance changed concurrently"); err != nil {
			return err
		}
		ok, err = guard.UpdateBalance(dbc, contractor.ID, contractor.Balance, contractorNext, paidAt)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "contractor balance changed concurrently"); err != nil {
			return err
		}

		out = domainagg.PayForJobResult{
			JobID:             job.ID,
			ContractID:        contract.ID,
			ClientID:          client.ID,
			ContractorID:      contractor.ID,
			Amount:            price,
			ClientBalance:     clientNext,
			ContractorBalance: contractorNext,
			PaidAt:            paidAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.PayForJobResult{}, err
	}
	return out, nil
}
