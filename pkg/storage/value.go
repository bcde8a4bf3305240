package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/serifcolakel/sc-hooks/internal/observability"
	"github.com/serifcolakel/sc-hooks/pkg/metrics"
)

// Value binds one backend and one key to a Go type, round-tripping the value
// through JSON. Its operations absorb failures: callers observe an absent
// value, never an error. "Key never set" and "stored bytes failed to parse"
// are indistinguishable on purpose.
type Value[T any] struct {
	backend Backend
	key     string
	rec     metrics.Recorder
}

// ValueOption configures a Value at construction.
type ValueOption func(*valueConfig)

type valueConfig struct {
	rec metrics.Recorder
}

// WithRecorder injects a metrics recorder. Defaults to metrics.NoopRecorder.
func WithRecorder(rec metrics.Recorder) ValueOption {
	return func(c *valueConfig) {
		if rec != nil {
			c.rec = rec
		}
	}
}

// NewValue creates a typed accessor for key on backend.
func NewValue[T any](backend Backend, key string, opts ...ValueOption) *Value[T] {
	cfg := valueConfig{rec: metrics.NoopRecorder{}}
	for _, o := range opts {
		o(&cfg)
	}
	return &Value[T]{backend: backend, key: key, rec: cfg.rec}
}

// Key returns the key this accessor is bound to.
func (v *Value[T]) Key() string { return v.key }

// Read loads and deserializes the stored value. The second return is false
// when the key is absent, the backend fails, or the stored bytes do not
// deserialize; backend and decode failures are logged, not returned.
func (v *Value[T]) Read(ctx context.Context) (T, bool) {
	var out T
	start := time.Now()

	data, err := v.backend.Get(ctx, v.key)
	v.rec.ObserveStoreOpDuration(v.backend.Name(), "read", time.Since(start))
	if errors.Is(err, ErrNotFound) {
		v.rec.IncStoreOp(v.backend.Name(), "read", metrics.ResultAbsent)
		return out, false
	}
	if err != nil {
		observability.WarnContext(v.logCtx(ctx), "read failed", observability.Error(err))
		v.rec.IncStoreOp(v.backend.Name(), "read", metrics.ResultFailed)
		return out, false
	}

	if err := json.Unmarshal(data, &out); err != nil {
		observability.WarnContext(v.logCtx(ctx), "deserialize failed", observability.Error(err))
		v.rec.IncStoreOp(v.backend.Name(), "read", metrics.ResultFailed)
		var zero T
		return zero, false
	}

	v.rec.IncStoreOp(v.backend.Name(), "read", metrics.ResultSuccess)
	return out, true
}

// Write serializes val and stores it. Failures are logged and swallowed.
func (v *Value[T]) Write(ctx context.Context, val T) {
	data, err := json.Marshal(val)
	if err != nil {
		observability.WarnContext(v.logCtx(ctx), "serialize failed", observability.Error(err))
		v.rec.IncStoreOp(v.backend.Name(), "write", metrics.ResultFailed)
		return
	}

	start := time.Now()
	err = v.backend.Put(ctx, v.key, data)
	v.rec.ObserveStoreOpDuration(v.backend.Name(), "write", time.Since(start))
	if err != nil {
		observability.WarnContext(v.logCtx(ctx), "write failed", observability.Error(err))
		v.rec.IncStoreOp(v.backend.Name(), "write", metrics.ResultFailed)
		return
	}
	v.rec.IncStoreOp(v.backend.Name(), "write", metrics.ResultSuccess)
}

// Clear removes the entry. Failures are logged and swallowed; clearing an
// absent key is fine.
func (v *Value[T]) Clear(ctx context.Context) {
	start := time.Now()
	err := v.backend.Delete(ctx, v.key)
	v.rec.ObserveStoreOpDuration(v.backend.Name(), "clear", time.Since(start))
	if err != nil {
		observability.WarnContext(v.logCtx(ctx), "clear failed", observability.Error(err))
		v.rec.IncStoreOp(v.backend.Name(), "clear", metrics.ResultFailed)
		return
	}
	v.rec.IncStoreOp(v.backend.Name(), "clear", metrics.ResultSuccess)
}

func (v *Value[T]) logCtx(ctx context.Context) context.Context {
	ctx = observability.WithStoreKey(ctx, v.key)
	return observability.WithBackend(ctx, v.backend.Name())
}
