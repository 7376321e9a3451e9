package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/envutil"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec
	moneyMoved         *CounterVec

	idempotencyReplays *Counter

	unpaidJobs    *Gauge
	unpaidTotal   *Gauge
	dbStats       *GaugeVec
	redisUp       *Gauge
	redisPing     *Gauge
	collectorTick time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry once. It returns nil when METRICS_ENABLED is off.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled", "scrape_interval", instance.collectorTick.String())
		}
	})
	return instance
}

// New returns a standalone registry.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("cp_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"cp_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("cp_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("cp_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("cp_api_requests_error_total", "Total API requests answered with 5xx."),

		aggregateOps: NewCounterVec("cp_aggregate_operations_total", "Aggregate write operations by op/status.", []string{"op", "status"}),
		aggregateLatency: NewHistogramVec(
			"cp_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by op/status, lock waits included.",
			[]string{"op", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		),
		aggregateConflicts: NewCounterVec("cp_aggregate_conflicts_total", "Writes rejected because they were already applied.", []string{"op"}),
		aggregateRetries:   NewCounterVec("cp_aggregate_retryable_failures_total", "Writes failed with a retryable transaction failure.", []string{"op"}),
		moneyMoved:         NewCounterVec("cp_money_moved_minor_units_total", "Minor currency units moved by committed writes.", []string{"op"}),

		idempotencyReplays: NewCounter("cp_idempotency_replays_total", "Deposit requests answered from the idempotency store."),

		unpaidJobs:    NewGauge("cp_unpaid_jobs", "Unpaid jobs across all contracts."),
		unpaidTotal:   NewGauge("cp_unpaid_minor_units", "Sum of unpaid job prices in minor units."),
		dbStats:       NewGaugeVec("cp_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:       NewGauge("cp_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:     NewGauge("cp_redis_ping_seconds", "Redis ping latency in seconds."),
		collectorTick: envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries, m.moneyMoved,
		m.idempotencyReplays,
		m.unpaidJobs, m.unpaidTotal, m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateOps.Inc(op, status)
	m.aggregateLatency.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(op)
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(op)
}

func (m *Metrics) AddMoneyMoved(op string, amount types.Money) {
	if m == nil || amount <= 0 {
		return
	}
	m.moneyMoved.Add(float64(amount), op)
}

func (m *Metrics) IncIdempotencyReplay() {
	if m == nil {
		return
	}
	m.idempotencyReplays.Inc()
}

// AggregateOperations returns the count recorded for op/status.
func (m *Metrics) AggregateOperations(op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.aggregateOps.Value(op, status)
}

// StartDBCollector samples pool stats and the unpaid-work backlog until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.collectorTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.collectDB(ctx, log, db)
			}
		}
	}()
}

func (m *Metrics) collectDB(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	stats := sqlDB.Stats()
	m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
	m.dbStats.Set(float64(stats.InUse), "in_use")
	m.dbStats.Set(float64(stats.Idle), "idle")
	m.dbStats.Set(float64(stats.WaitCount), "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")

	var row struct {
		Count int64
		Total int64
	}
	if err := db.WithContext(ctx).
		Model(&types.Job{}).
		Select("COUNT(*) AS count, CAST(COALESCE(SUM(price), 0) AS BIGINT) AS total").
		Where("paid = ?", false).
		Scan(&row).Error; err != nil {
		if log != nil {
			log.Warn("metrics: unpaid jobs query failed", "error", err)
		}
		return
	}
	m.unpaidJobs.Set(float64(row.Count))
	m.unpaidTotal.Set(float64(row.Total))
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.collectorTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}
