package aggregates

import (
	"context"
	"testing"
	"time"

	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
)

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}
	runner := spyTxRunner{}

	err := executeWrite(context.Background(), BaseDeps{
		Runner: runner,
		Hooks:  hooks,
	}, "aggregate.test.success", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if got := hooks.only(t); got.Status() != "success" || got.Op != "aggregate.test.success" {
		t.Fatalf("outcome: %+v", got)
	}
}

func TestExecuteWriteObservesInvariantViolationStatus(t *testing.T) {
	hooks := &spyHooks{}
	runner := spyTxRunner{}

	err := executeWrite(context.Background(), BaseDeps{
		Runner: runner,
		Hooks:  hooks,
	}, "aggregate.test.invariant", func(_ dbctx.Context) error {
		return InvariantError("invariant broken")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation code, got=%v", err)
	}
	if got := hooks.only(t); got.Code != domainagg.CodeInvariantViolation || got.Retryable() || got.AlreadyApplied() {
		t.Fatalf("outcome: %+v", got)
	}
}

func TestExecuteWriteClassifiesConflictAndRetry(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		hooks := &spyHooks{}
		runner := spyTxRunner{}
		err := executeWrite(context.Background(), BaseDeps{
			Runner: runner,
			Hooks:  hooks,
		}, "aggregate.test.conflict", func(_ dbctx.Context) error {
			return domainagg.NewError(domainagg.CodeJobAlreadyPaid, "aggregate.test.conflict", "already paid", nil)
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		if !domainagg.IsCode(err, domainagg.CodeJobAlreadyPaid) {
			t.Fatalf("expected already paid code, got=%v", err)
		}
		got := hooks.only(t)
		if !got.AlreadyApplied() || got.Retryable() || got.Status() != string(domainagg.CodeJobAlreadyPaid) {
			t.Fatalf("outcome: %+v", got)
		}
	})

	t.Run("retryable", func(t *testing.T) {
		hooks := &spyHooks{}
		runner := spyTxRunner{}
		err := executeWrite(context.Background(), BaseDeps{
			Runner: runner,
			Hooks:  hooks,
		}, "aggregate.test.retry", func(_ dbctx.Context) error {
			return RetryableError("temporary lock timeout")
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		if !domainagg.IsCode(err, domainagg.CodeTransactionFailure) {
			t.Fatalf("expected transaction failure code, got=%v", err)
		}
		got := hooks.only(t)
		if !got.Retryable() || got.AlreadyApplied() || got.Op != "aggregate.test.retry" {
			t.Fatalf("outcome: %+v", got)
		}
	})
}

func TestAggregateErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"invariant", InvariantError("x"), domainagg.CodeInvariantViolation},
		{"conflict", ConflictError("x"), domainagg.CodeTransactionFailure},
		{"retryable", RetryableError("x"), domainagg.CodeTransactionFailure},
		{"deadline", context.DeadlineExceeded, domainagg.CodeTransactionFailure},
	}
	for _, tc := range cases {
		if got := aggregateErrorCode(tc.err); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
	if got := (WriteOutcome{}).Status(); got != "success" {
		t.Fatalf("empty outcome status: got=%s", got)
	}
}

func TestHooksFuncReceivesOutcome(t *testing.T) {
	var seen []string
	hooks := HooksFunc(func(o WriteOutcome) { seen = append(seen, o.Op+"="+o.Status()) })
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "Billing.Deposit.DepositToClient", func(_ dbctx.Context) error {
		return domainagg.NewError(domainagg.CodeDepositExceedsCap, "Billing.Deposit.DepositToClient", "over cap", nil)
	})
	if len(seen) != 1 || seen[0] != "Billing.Deposit.DepositToClient="+string(domainagg.CodeDepositExceedsCap) {
		t.Fatalf("seen: %v", seen)
	}
}

func TestExecuteWriteAppliesTxTimeout(t *testing.T) {
	hooks := &spyHooks{}
	var deadline time.Time
	var hasDeadline bool
	err := executeWrite(context.Background(), BaseDeps{
		Runner:    spyTxRunner{},
		Hooks:     hooks,
		TxTimeout: time.Second,
	}, "aggregate.test.timeout", func(dbc dbctx.Context) error {
		deadline, hasDeadline = dbc.Ctx.Deadline()
		return nil
	})
	if err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if !hasDeadline || time.Until(deadline) > time.Second {
		t.Fatalf("expected tx deadline within 1s, got has=%v deadline=%v", hasDeadline, deadline)
	}
}

func TestExecuteWriteMapsExpiredContext(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner:    spyTxRunner{},
		Hooks:     hooks,
		TxTimeout: time.Millisecond,
	}, "aggregate.test.expired", func(dbc dbctx.Context) error {
		<-dbc.Ctx.Done()
		return dbc.Ctx.Err()
	})
	if !domainagg.IsCode(err, domainagg.CodeTransactionFailure) {
		t.Fatalf("expected transaction failure, got=%v", err)
	}
	if got := hooks.only(t); !got.Retryable() {
		t.Fatalf("expired context should be retryable: %+v", got)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	outcomes []WriteOutcome
}

func (h *spyHooks) WriteFinished(o WriteOutcome) {
	h.outcomes = append(h.outcomes, o)
}

func (h *spyHooks) only(t *testing.T) WriteOutcome {
	t.Helper()
	if len(h.outcomes) != 1 {
		t.Fatalf("outcomes: want=1 got=%+v", h.outcomes)
	}
	return h.outcomes[0]
}
