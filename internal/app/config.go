package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/contractpay-backend/internal/data/db"
	"github.com/yungbote/contractpay-backend/internal/idempotency"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/envutil"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	Environment    string
	Version        string
	ServiceName    string
	TxTimeout      time.Duration
	IdempotencyTTL time.Duration
	CORSOrigins    []string
	AutoMigrate    bool
	ShutdownGrace  time.Duration
	DB             db.Config
	Tracing        observability.OtelConfig
}

// LoadDotEnv loads path (or ./.env) into the process environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	var err error
	if strings.TrimSpace(path) == "" {
		err = godotenv.Load()
	} else {
		err = godotenv.Load(path)
	}
	if err != nil && strings.TrimSpace(path) != "" {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:           envutil.String("PORT", "3001"),
		Environment:    envutil.String("ENVIRONMENT", "development"),
		Version:        envutil.String("SERVICE_VERSION", "dev"),
		ServiceName:    envutil.String("OTEL_SERVICE_NAME", "contractpay"),
		TxTimeout:      envutil.Duration("TX_TIMEOUT", 5*time.Second),
		IdempotencyTTL: envutil.Duration("IDEMPOTENCY_TTL", idempotency.DefaultTTL),
		CORSOrigins:    splitList(envutil.String("CORS_ORIGINS", "")),
		AutoMigrate:    envutil.Bool("DB_AUTO_MIGRATE", true),
		ShutdownGrace:  envutil.Duration("SHUTDOWN_GRACE", 10*time.Second),
		DB:             db.ConfigFromEnv(),
	}
	cfg.Tracing = observability.LoadOtelConfig(cfg.ServiceName, cfg.Environment, cfg.Version)
	if log != nil {
		log.Info("Config loaded",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"db_driver", cfg.DB.Driver,
			"tx_timeout", cfg.TxTimeout.String(),
			"idempotency_ttl", cfg.IdempotencyTTL.String(),
			"tracing", cfg.Tracing.Enabled,
		)
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
