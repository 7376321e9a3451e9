package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/contractpay-backend/internal/platform/envutil"
)

const redacted = "[REDACTED]"

// Redactor rewrites log values by key. Keys are matched case-insensitively by substring.
// Secret keys are replaced outright; personal-name keys become a salted sha256 prefix.
type Redactor struct {
	Disabled   bool
	SecretKeys []string
	NameKeys   []string
	Salt       string
}

var (
	// DefaultSecretKeys covers credentials and the per-client idempotency keys.
	DefaultSecretKeys = []string{"password", "secret", "token", "authorization", "dsn", "idempotency_key"}
	// DefaultNameKeys covers profile names returned by the best-clients report.
	DefaultNameKeys = []string{"first_name", "last_name", "full_name", "fullname"}
)

// RedactorFromEnv reads LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT.
func RedactorFromEnv() *Redactor {
	return &Redactor{
		Disabled:   !envutil.Bool("LOG_REDACTION_ENABLED", true),
		SecretKeys: DefaultSecretKeys,
		NameKeys:   DefaultNameKeys,
		Salt:       envutil.String("LOG_HASH_SALT", ""),
	}
}

var (
	envRedactorOnce sync.Once
	envRedactor     *Redactor
)

func defaultRedactor() *Redactor {
	envRedactorOnce.Do(func() { envRedactor = RedactorFromEnv() })
	return envRedactor
}

// Apply scrubs a zap-style key/value list. A trailing key with no value passes through.
func (r *Redactor) Apply(kv []interface{}) []interface{} {
	if r == nil || r.Disabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		out[i+1] = r.value(stringify(out[i]), out[i+1])
	}
	return out
}

func (r *Redactor) value(key string, val interface{}) interface{} {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return val
	}
	if containsAny(key, r.SecretKeys) {
		return redacted
	}
	if containsAny(key, r.NameKeys) {
		return r.hash(val)
	}
	if m, ok := val.(map[string]interface{}); ok {
		nested := make(map[string]interface{}, len(m))
		for k, v := range m {
			nested[k] = r.value(k, v)
		}
		return nested
	}
	return val
}

func (r *Redactor) hash(val interface{}) string {
	s := stringify(val)
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.Salt + s))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(key string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(key, n) {
			return true
		}
	}
	return false
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
