package billing

import (
	"errors"
	"testing"
	"time"
)

func TestJobMarkPaidOnce(t *testing.T) {
	j := Job{Price: 100}
	if !j.PaymentStateConsistent() {
		t.Fatalf("fresh job should be consistent")
	}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := j.MarkPaid(at); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if !j.Paid || j.PaymentDate == nil || !j.PaymentDate.Equal(at) {
		t.Fatalf("unexpected job after MarkPaid: %+v", j)
	}
	if err := j.MarkPaid(at.Add(time.Hour)); !errors.Is(err, ErrJobAlreadyPaid) {
		t.Fatalf("second MarkPaid: expected ErrJobAlreadyPaid, got %v", err)
	}
	if !j.PaymentDate.Equal(at) {
		t.Fatalf("payment date moved on rejected transition")
	}
}

func TestProfileHelpers(t *testing.T) {
	p := &Profile{FirstName: "Ada", LastName: "Lovelace", Type: " Client "}
	if !p.IsClient() {
		t.Fatalf("expected client")
	}
	if p.FullName() != "Ada Lovelace" {
		t.Fatalf("full name: got=%q", p.FullName())
	}
	if IsKnownProfileType("admin") {
		t.Fatalf("admin should not be a known type")
	}
}
