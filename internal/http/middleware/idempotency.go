package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contractpay-backend/internal/idempotency"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/ctxutil"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

const (
	HeaderIdempotencyKey   = "Idempotency-Key"
	HeaderIdempotentReplay = "Idempotent-Replay"

	maxIdempotencyKeyLen = 255
	maxIdempotentBody    = 1 << 20
)

type Idempotency struct {
	log     *logger.Logger
	store   idempotency.Store
	metrics *observability.Metrics
}

func NewIdempotency(log *logger.Logger, store idempotency.Store, metrics *observability.Metrics) *Idempotency {
	return &Idempotency{log: log.With("Middleware", "Idempotency"), store: store, metrics: metrics}
}

// Handle replays the stored response for a repeated Idempotency-Key. Requests without the header pass through.
// 5xx responses release the key so the client may retry.
func (m *Idempotency) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if key == "" || m.store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"message": "Idempotency-Key too long", "code": "validation"},
			})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotentBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"message": "unreadable body", "code": "validation"},
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		scoped := scopeKey(ctx, key)
		fp := fingerprint(c.Request.Method, c.Request.URL.Path, body)
		prior, err := m.store.Begin(ctx, scoped, fp)
		switch {
		case errors.Is(err, idempotency.ErrInFlight):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": gin.H{"message": err.Error(), "code": "idempotency_in_flight"},
			})
			return
		case errors.Is(err, idempotency.ErrKeyReused):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{"message": err.Error(), "code": "idempotency_key_reused"},
			})
			return
		case err != nil:
			m.log.Error("Idempotency store unavailable", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{"message": "idempotency store unavailable", "code": "transaction_failure"},
			})
			return
		}
		if prior != nil {
			m.metrics.IncIdempotencyReplay()
			c.Header(HeaderIdempotentReplay, "true")
			c.Data(prior.Status, "application/json; charset=utf-8", prior.Body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// Record the outcome even if the client disconnected.
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		status := rec.Status()
		if status >= http.StatusInternalServerError {
			if err := m.store.Abort(finishCtx, scoped); err != nil {
				m.log.Warn("Idempotency abort failed", "error", err)
			}
			return
		}
		if err := m.store.Complete(finishCtx, scoped, idempotency.Response{Status: status, Body: rec.body.Bytes(), Fingerprint: fp}); err != nil {
			m.log.Warn("Idempotency complete failed", "error", err)
		}
	}
}

// Keys are scoped per acting profile.
func scopeKey(ctx context.Context, key string) string {
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		return rd.ProfileID.String() + ":" + key
	}
	return "anonymous:" + key
}

func fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(bytes.TrimSpace(body))
	return hex.EncodeToString(h.Sum(nil))
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
