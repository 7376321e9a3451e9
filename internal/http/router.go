package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/contractpay-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contractpay-backend/internal/http/middleware"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	ProfileMiddleware     *httpMW.ProfileMiddleware
	IdempotencyMiddleware *httpMW.Idempotency

	ContractHandler *httpH.ContractHandler
	BillingHandler  *httpH.BillingHandler
	AdminHandler    *httpH.AdminHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/")
	{
		if cfg.ProfileMiddleware != nil {
			protected.Use(cfg.ProfileMiddleware.RequireProfile())
		}

		// Contracts & jobs
		if cfg.ContractHandler != nil {
			protected.GET("/contracts/:id", cfg.ContractHandler.GetContract)
			protected.GET("/contracts", cfg.ContractHandler.ListContracts)
			protected.GET("/jobs/unpaid", cfg.ContractHandler.ListUnpaidJobs)
		}

		// Money movement
		if cfg.BillingHandler != nil {
			protected.POST("/jobs/:job_id/pay", cfg.BillingHandler.PayForJob)
			deposit := []gin.HandlerFunc{}
			if cfg.IdempotencyMiddleware != nil {
				deposit = append(deposit, cfg.IdempotencyMiddleware.Handle())
			}
			deposit = append(deposit, cfg.BillingHandler.Deposit)
			protected.POST("/balances/deposit/:userId", deposit...)
		}

		// Admin reports
		if cfg.AdminHandler != nil {
			protected.GET("/admin/best-profession", cfg.AdminHandler.BestProfession)
			protected.GET("/admin/best-clients", cfg.AdminHandler.BestClients)
		}
	}

	return r
}
