package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("X_TIMEOUT", "750ms")
	if got := Duration("X_TIMEOUT", time.Second); got != 750*time.Millisecond {
		t.Fatalf("duration string: got=%s", got)
	}
	t.Setenv("X_TIMEOUT", "3")
	if got := Duration("X_TIMEOUT", time.Second); got != 3*time.Second {
		t.Fatalf("bare seconds: got=%s", got)
	}
	t.Setenv("X_TIMEOUT", "soon")
	if got := Duration("X_TIMEOUT", time.Second); got != time.Second {
		t.Fatalf("fallback: got=%s", got)
	}
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("X_FLAG", "on")
	if !Bool("X_FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("X_FLAG", "maybe")
	if Bool("X_FLAG", false) {
		t.Fatalf("expected default false")
	}
	t.Setenv("X_INT", "12")
	if got := Int("X_INT", 1); got != 12 {
		t.Fatalf("int: got=%d", got)
	}
	if got := String("X_MISSING_KEY", "def"); got != "def" {
		t.Fatalf("string default: got=%s", got)
	}
}
