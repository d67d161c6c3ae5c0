package kv

import (
	"context"
	"errors"
	"time"

	"stoktakip-service/internal/util"
)

// instrumented records latency and failures of every call on the wrapped
// store, labelled by backend name.
type instrumented struct {
	next    Store
	backend string
}

// WithMetrics wraps s so each operation feeds the kv_* Prometheus series
func WithMetrics(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	util.KVOperationDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, ErrNotFound) {
		util.KVOperationErrors.WithLabelValues(i.backend, op).Inc()
	}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.next.Get(ctx, key)
	i.observe("get", start, err)
	return v, err
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value)
	i.observe("set", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	start := time.Now()
	v, err := i.next.Scan(ctx, prefix)
	i.observe("scan", start, err)
	return v, err
}

func (i *instrumented) Apply(ctx context.Context, ops []Op) error {
	start := time.Now()
	err := i.next.Apply(ctx, ops)
	i.observe("apply", start, err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
