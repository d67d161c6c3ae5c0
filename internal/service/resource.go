package service

import (
	"context"
	"time"

	"stoktakip-service/internal/store"
	"stoktakip-service/internal/util"

	"go.uber.org/zap"
)

// Clock returns the current time; swapped in tests
type Clock func() time.Time

// Resource is the plain list/get/create/update/delete surface of one record
// type. prepare runs before every write and may fill defaults, recompute
// derived fields or reject the record.
type Resource[T any, P interface {
	*T
	store.Record
}] struct {
	coll    *store.Collection[T, P]
	prepare func(rec P, now time.Time) error
	now     Clock
	logger  *zap.Logger
}

// NewResource creates a resource service. prepare may be nil.
func NewResource[T any, P interface {
	*T
	store.Record
}](coll *store.Collection[T, P], prepare func(P, time.Time) error, now Clock) *Resource[T, P] {
	return &Resource[T, P]{
		coll:    coll,
		prepare: prepare,
		now:     now,
		logger:  util.GetLogger(),
	}
}

// Name returns the resource key prefix
func (r *Resource[T, P]) Name() string { return r.coll.Prefix() }

// List returns every record
func (r *Resource[T, P]) List(ctx context.Context) ([]T, error) {
	ctx, span := util.StartSpan(ctx, r.Name()+".List")
	defer span.End()

	return r.coll.List(ctx)
}

// Get returns one record or ErrNotFound
func (r *Resource[T, P]) Get(ctx context.Context, id string) (P, error) {
	ctx, span := util.StartSpan(ctx, r.Name()+".Get")
	defer span.End()

	return r.coll.Get(ctx, id)
}

// Create stores rec, assigning an id when it has none
func (r *Resource[T, P]) Create(ctx context.Context, rec P) (P, error) {
	ctx, span := util.StartSpan(ctx, r.Name()+".Create")
	defer span.End()

	if err := r.runPrepare(rec); err != nil {
		return nil, err
	}

	created, err := r.coll.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	util.RecordsWrittenTotal.WithLabelValues(r.Name()).Inc()
	r.logger.Debug("Record created", zap.String("resource", r.Name()), zap.String("id", created.GetID()))
	return created, nil
}

// Update overwrites the record at id
func (r *Resource[T, P]) Update(ctx context.Context, id string, rec P) (P, error) {
	ctx, span := util.StartSpan(ctx, r.Name()+".Update")
	defer span.End()

	if err := r.runPrepare(rec); err != nil {
		return nil, err
	}

	updated, err := r.coll.Update(ctx, id, rec)
	if err != nil {
		return nil, err
	}

	util.RecordsWrittenTotal.WithLabelValues(r.Name()).Inc()
	return updated, nil
}

// Delete removes the record at id; deleting a missing id succeeds
func (r *Resource[T, P]) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, r.Name()+".Delete")
	defer span.End()

	return r.coll.Delete(ctx, id)
}

// runPrepare fills defaults and derived fields, then validates the result
func (r *Resource[T, P]) runPrepare(rec P) error {
	if r.prepare != nil {
		if err := r.prepare(rec, r.now()); err != nil {
			return err
		}
	}
	return validateStruct(rec)
}
