package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is a sugared zap logger that scrubs key/value pairs before they
// reach the sink.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	policy        *Policy
}

// Policy decides what happens to a logged value by its key. Keys are
// compared lowercased.
type Policy struct {
	Disabled bool
	// Redact replaces the value with [REDACTED] when the key contains any entry.
	Redact []string
	// Hash replaces the value with a short salted digest when the key equals
	// any entry.
	Hash []string
	Salt string
	// MaxBytes is the largest []byte logged verbatim; longer payloads are
	// logged as their size.
	MaxBytes int
}

// DefaultPolicy keeps journal notes and credentials out of the logs and
// hashes the profile fields.
func DefaultPolicy() Policy {
	return Policy{
		Redact:   []string{"token", "authorization", "secret", "api_key", "apikey", "notes"},
		Hash:     []string{"name", "profile_name", "due_date"},
		MaxBytes: 64,
	}
}

type Option func(*Policy)

func WithRedaction(enabled bool) Option {
	return func(p *Policy) { p.Disabled = !enabled }
}

func WithHashSalt(salt string) Option {
	return func(p *Policy) { p.Salt = strings.TrimSpace(salt) }
}

func New(mode string, opts ...Option) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return wrap(zapLogger, opts), nil
}

// Nop discards everything.
func Nop() *Logger {
	return wrap(zap.NewNop(), nil)
}

// NewObserved is backed by an in-memory core for assertions in tests.
func NewObserved(level zapcore.Level, opts ...Option) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return wrap(zap.New(core), opts), logs
}

func wrap(z *zap.Logger, opts []Option) *Logger {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	return &Logger{SugaredLogger: z.Sugar(), policy: &p}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.policy.scrub(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, l.policy.scrub(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.policy.scrub(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.policy.scrub(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.policy.scrub(keysAndValues)...)
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(l.policy.scrub(keysAndValues)...),
		policy:        l.policy,
	}
}

func (p *Policy) scrub(kv []interface{}) []interface{} {
	if len(kv) == 0 || p == nil || p.Disabled {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, p.value(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func (p *Policy) value(key string, val interface{}) interface{} {
	if key != "" {
		for _, r := range p.Redact {
			if strings.Contains(key, r) {
				return "[REDACTED]"
			}
		}
		for _, h := range p.Hash {
			if key == h {
				return p.hash(val)
			}
		}
	}
	switch v := val.(type) {
	case []byte:
		if p.MaxBytes > 0 && len(v) > p.MaxBytes {
			return fmt.Sprintf("[%d bytes]", len(v))
		}
		return val
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = p.value(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, inner := range v {
			out = append(out, p.value("", inner))
		}
		return out
	default:
		return val
	}
}

func (p *Policy) hash(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if p.Salt != "" {
		_, _ = h.Write([]byte(p.Salt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func toString(v interface{}) string {
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
