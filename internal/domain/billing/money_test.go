package billing

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"0", 0},
		{"12", 1200},
		{"12.5", 1250},
		{"12.50", 1250},
		{"0.01", 1},
		{"-3.10", -310},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if err != nil {
			t.Fatalf("ParseMoney(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMoney(%q): want=%d got=%d", tc.in, tc.want, got)
		}
	}
}

func TestParseMoneyRejectsSubCentAmounts(t *testing.T) {
	if _, err := ParseMoney("1.005"); !errors.Is(err, ErrMoneyPrecision) {
		t.Fatalf("expected precision error, got %v", err)
	}
	if _, err := ParseMoney("1e30"); !errors.Is(err, ErrMoneyOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if _, err := Money(math.MaxInt64).Add(1); !errors.Is(err, ErrMoneyOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if _, err := Money(50).Sub(100); !errors.Is(err, ErrMoneyNegative) {
		t.Fatalf("expected negative error, got %v", err)
	}
	got, err := Money(100).Sub(100)
	if err != nil || got != 0 {
		t.Fatalf("100-100: got=%d err=%v", got, err)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money(1250))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"12.50"` {
		t.Fatalf("marshal: got=%s", b)
	}
	var body struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount": 7.25}`), &body); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if body.Amount != 725 {
		t.Fatalf("unmarshal number: got=%d", body.Amount)
	}
	if err := json.Unmarshal([]byte(`{"amount": "0.10"}`), &body); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if body.Amount != 10 {
		t.Fatalf("unmarshal string: got=%d", body.Amount)
	}
}
