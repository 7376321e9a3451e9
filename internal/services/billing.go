package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/domain/billing"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/ctxutil"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

// BillingService runs the money-moving processors on behalf of the request's acting profile.
type BillingService interface {
	PayForJob(ctx context.Context, jobID uuid.UUID) (domainagg.PayForJobResult, error)
	DepositToClient(ctx context.Context, targetProfileID uuid.UUID, amount billing.Money) (domainagg.DepositResult, error)
}

type billingService struct {
	log      *logger.Logger
	payments domainagg.PaymentAggregate
	deposits domainagg.DepositAggregate
	metrics  *observability.Metrics
}

func NewBillingService(log *logger.Logger, payments domainagg.PaymentAggregate, deposits domainagg.DepositAggregate, metrics *observability.Metrics) BillingService {
	return &billingService{
		log:      log.With("service", "BillingService"),
		payments: payments,
		deposits: deposits,
		metrics:  metrics,
	}
}

func (s *billingService) PayForJob(ctx context.Context, jobID uuid.UUID) (domainagg.PayForJobResult, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.ProfileID == uuid.Nil {
		return domainagg.PayForJobResult{}, ErrUnauthorized
	}
	res, err := s.payments.PayForJob(ctx, domainagg.PayForJobInput{
		ActorProfileID: rd.ProfileID,
		JobID:          jobID,
	})
	if err != nil {
		s.log.Debug("PayForJob rejected", "profile_id", rd.ProfileID, "job_id", jobID, "code", string(domainagg.CodeOf(err)))
		return res, err
	}
	s.metrics.AddMoneyMoved("pay", res.Amount)
	s.log.Info("Job paid",
		"job_id", res.JobID,
		"client_id", res.ClientID,
		"contractor_id", res.ContractorID,
		"amount", res.Amount.String(),
	)
	return res, nil
}

func (s *billingService) DepositToClient(ctx context.Context, targetProfileID uuid.UUID, amount billing.Money) (domainagg.DepositResult, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.ProfileID == uuid.Nil {
		return domainagg.DepositResult{}, ErrUnauthorized
	}
	res, err := s.deposits.DepositToClient(ctx, domainagg.DepositInput{
		TargetProfileID: targetProfileID,
		Amount:          amount,
	})
	if err != nil {
		s.log.Debug("Deposit rejected", "actor_id", rd.ProfileID, "profile_id", targetProfileID, "code", string(domainagg.CodeOf(err)))
		return res, err
	}
	s.metrics.AddMoneyMoved("deposit", res.Amount)
	s.log.Info("Deposit applied",
		"actor_id", rd.ProfileID,
		"profile_id", res.ProfileID,
		"amount", res.Amount.String(),
		"outstanding", res.Outstanding.String(),
	)
	return res, nil
}
