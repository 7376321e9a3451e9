package app

import (
	httpMW "github.com/yungbote/contractpay-backend/internal/http/middleware"
	"github.com/yungbote/contractpay-backend/internal/idempotency"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type Middleware struct {
	Profile     *httpMW.ProfileMiddleware
	Idempotency *httpMW.Idempotency
}

func wireMiddleware(log *logger.Logger, s Services, store idempotency.Store, metrics *observability.Metrics) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Profile:     httpMW.NewProfileMiddleware(log, s.Profile),
		Idempotency: httpMW.NewIdempotency(log, store, metrics),
	}
}
