package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the acting profile resolved for the current request.
type RequestData struct {
	ProfileID   uuid.UUID
	ProfileType string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// LogFields returns the acting profile as logger key/value pairs, or nil when none is resolved.
func (rd *RequestData) LogFields() []interface{} {
	if rd == nil || rd.ProfileID == uuid.Nil {
		return nil
	}
	return []interface{}{"profile_id", rd.ProfileID.String(), "profile_type", rd.ProfileType}
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
