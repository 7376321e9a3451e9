package aggregates

import (
	"time"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/observability"
)

// WriteOutcome is reported once per aggregate write, after commit or rollback.
type WriteOutcome struct {
	Op       string
	Code     domainagg.ErrorCode // empty on success
	Duration time.Duration
}

func (o WriteOutcome) Status() string {
	if o.Code == "" {
		return "success"
	}
	return string(o.Code)
}

// AlreadyApplied is true when the write lost to an earlier payment of the same job.
func (o WriteOutcome) AlreadyApplied() bool {
	return o.Code == domainagg.CodeJobAlreadyPaid
}

func (o WriteOutcome) Retryable() bool {
	return o.Code.Retryable()
}

type Hooks interface {
	WriteFinished(WriteOutcome)
}

type noopHooks struct{}

func (noopHooks) WriteFinished(WriteOutcome) {}

// HooksFunc adapts a plain function to Hooks.
type HooksFunc func(WriteOutcome)

func (f HooksFunc) WriteFinished(o WriteOutcome) { f(o) }

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks feeds write outcomes into the aggregate counters and latency histogram.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func (h metricsHooks) WriteFinished(o WriteOutcome) {
	h.metrics.ObserveAggregateOperation(o.Op, o.Status(), o.Duration)
	if o.AlreadyApplied() {
		h.metrics.IncAggregateConflict(o.Op)
	}
	if o.Retryable() {
		h.metrics.IncAggregateRetry(o.Op)
	}
}
