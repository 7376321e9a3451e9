// Package idempotency remembers responses to client-supplied Idempotency-Key requests
// so a retried deposit is answered from the first attempt instead of applied twice.
package idempotency

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInFlight means another request holding the same key has not finished.
	ErrInFlight = errors.New("idempotency key in flight")
	// ErrKeyReused means the key was first used with a different request body.
	ErrKeyReused = errors.New("idempotency key reused with different request")
)

// Response is the stored outcome of a completed request.
type Response struct {
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

type record struct {
	Pending     bool      `json:"pending"`
	Fingerprint string    `json:"fingerprint"`
	Response    *Response `json:"response,omitempty"`
}

// Store is implemented by the Redis and in-memory backends.
type Store interface {
	// Begin claims key for fingerprint. A non-nil Response means the request already completed.
	Begin(ctx context.Context, key, fingerprint string) (*Response, error)
	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, resp Response) error
	// Abort releases a claim so the request can be retried.
	Abort(ctx context.Context, key string) error
}

func resolve(rec record, fingerprint string) (*Response, error) {
	if rec.Fingerprint != fingerprint {
		return nil, ErrKeyReused
	}
	if rec.Pending || rec.Response == nil {
		return nil, ErrInFlight
	}
	out := *rec.Response
	return &out, nil
}

const DefaultTTL = 24 * time.Hour
