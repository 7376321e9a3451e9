package testutil

import (
	"sync"

	"github.com/yungbote/contractpay-backend/internal/data/aggregates"
)

// HooksRecorder keeps every write outcome so tests can assert on payment and deposit results.
// Safe for the concurrent payment tests.
type HooksRecorder struct {
	mu       sync.Mutex
	outcomes []aggregates.WriteOutcome
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) WriteFinished(o aggregates.WriteOutcome) {
	h.mu.Lock()
	h.outcomes = append(h.outcomes, o)
	h.mu.Unlock()
}

func (h *HooksRecorder) Outcomes() []aggregates.WriteOutcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]aggregates.WriteOutcome(nil), h.outcomes...)
}

// Statuses lists outcome statuses in arrival order.
func (h *HooksRecorder) Statuses() []string {
	var out []string
	for _, o := range h.Outcomes() {
		out = append(out, o.Status())
	}
	return out
}

func (h *HooksRecorder) count(match func(aggregates.WriteOutcome) bool) int {
	n := 0
	for _, o := range h.Outcomes() {
		if match(o) {
			n++
		}
	}
	return n
}

// AlreadyPaid counts writes rejected because the job had been paid first.
func (h *HooksRecorder) AlreadyPaid() int {
	return h.count(aggregates.WriteOutcome.AlreadyApplied)
}

func (h *HooksRecorder) Retryable() int {
	return h.count(aggregates.WriteOutcome.Retryable)
}

func (h *HooksRecorder) Successes() int {
	return h.count(func(o aggregates.WriteOutcome) bool { return o.Code == "" })
}
