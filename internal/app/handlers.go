package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpH "github.com/yungbote/contractpay-backend/internal/http/handlers"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type Handlers struct {
	Contract *httpH.ContractHandler
	Billing  *httpH.BillingHandler
	Admin    *httpH.AdminHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services, db *gorm.DB, rdb *goredis.Client) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return Handlers{
		Contract: httpH.NewContractHandler(s.Contract),
		Billing:  httpH.NewBillingHandler(s.Billing),
		Admin:    httpH.NewAdminHandler(s.Report),
		Health:   httpH.NewHealthHandler(checks),
	}
}
