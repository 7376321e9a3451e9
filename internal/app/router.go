package app

import (
	server "github.com/yungbote/contractpay-backend/internal/http"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, h Handlers, mw Middleware, metrics *observability.Metrics) server.RouterConfig {
	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.ServiceName
	}
	return server.RouterConfig{
		Log:                   log,
		Metrics:               metrics,
		ServiceName:           serviceName,
		CORSOrigins:           cfg.CORSOrigins,
		ProfileMiddleware:     mw.Profile,
		IdempotencyMiddleware: mw.Idempotency,
		ContractHandler:       h.Contract,
		BillingHandler:        h.Billing,
		AdminHandler:          h.Admin,
		HealthHandler:         h.Health,
	}
}
