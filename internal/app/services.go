package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contractpay-backend/internal/data/aggregates"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
	"github.com/yungbote/contractpay-backend/internal/services"
)

type Services struct {
	Profile  services.ProfileService
	Billing  services.BillingService
	Contract services.ContractService
	Report   services.ReportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	base := aggregates.BaseDeps{
		DB:        db,
		Log:       log,
		Hooks:     aggregates.NewObservabilityHooks(metrics),
		TxTimeout: cfg.TxTimeout,
	}
	payments := aggregates.NewPaymentAggregate(aggregates.PaymentAggregateDeps{
		Base:      base,
		Profiles:  r.Profile,
		Contracts: r.Contract,
		Jobs:      r.Job,
	})
	deposits := aggregates.NewDepositAggregate(aggregates.DepositAggregateDeps{
		Base:     base,
		Profiles: r.Profile,
		Jobs:     r.Job,
	})
	return Services{
		Profile:  services.NewProfileService(log, r.Profile),
		Billing:  services.NewBillingService(log, payments, deposits, metrics),
		Contract: services.NewContractService(log, r.Contract, r.Job),
		Report:   services.NewReportService(log, r.Report),
	}
}
