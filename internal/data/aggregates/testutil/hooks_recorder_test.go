package testutil

import (
	"sync"
	"testing"

	"github.com/yungbote/contractpay-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
)

func TestHooksRecorderClassifiesOutcomes(t *testing.T) {
	h := &HooksRecorder{}
	var wg sync.WaitGroup
	for _, code := range []domainagg.ErrorCode{"", domainagg.CodeJobAlreadyPaid, domainagg.CodeTransactionFailure, domainagg.CodeDepositExceedsCap} {
		wg.Add(1)
		go func(code domainagg.ErrorCode) {
			defer wg.Done()
			h.WriteFinished(aggregates.WriteOutcome{Op: "Billing.Payment.PayForJob", Code: code})
		}(code)
	}
	wg.Wait()

	if got := len(h.Outcomes()); got != 4 {
		t.Fatalf("outcomes: want=4 got=%d", got)
	}
	if h.Successes() != 1 || h.AlreadyPaid() != 1 || h.Retryable() != 1 {
		t.Fatalf("counts: success=%d paid=%d retry=%d", h.Successes(), h.AlreadyPaid(), h.Retryable())
	}
}
