package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/contractpay-backend/internal/data/aggregates"

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Tracer   trace.Tracer

	// TxTimeout bounds a whole write, lock waits included. Zero disables the bound.
	TxTimeout time.Duration
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.TxTimeout)
		defer cancel()
	}
	ctx, span := deps.Tracer.Start(ctx, op)
	defer span.End()

	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	outcome := WriteOutcome{Op: op}
	if mapped != nil {
		outcome.Code = aggregateErrorCode(mapped)
		if !outcome.Code.IsPrecondition() {
			deps.Log.Warn("aggregate write failed", "op", op, "code", string(outcome.Code), "error", mapped)
		}
		span.RecordError(mapped)
		span.SetStatus(codes.Error, outcome.Status())
	}
	span.SetAttributes(attribute.String("aggregate.op", op), attribute.String("aggregate.status", outcome.Status()))
	outcome.Duration = time.Since(start)
	deps.Hooks.WriteFinished(outcome)
	return mapped
}

// aggregateErrorCode never returns an empty code for a non-nil error.
func aggregateErrorCode(err error) domainagg.ErrorCode {
	if code := domainagg.CodeOf(err); code != "" {
		return code
	}
	if code := domainagg.CodeOf(MapError("aggregate.status", err)); code != "" {
		return code
	}
	return domainagg.CodeInternal
}
