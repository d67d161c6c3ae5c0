package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"stoktakip-service/internal/kv"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record id has no row.
var ErrNotFound = errors.New("record not found")

// NewID returns a time-ordered id with a random suffix so that records
// created in the same millisecond do not collide.
var NewID = func() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.New().String()[:8]
}

// Record is implemented by every model through models.Base.
type Record interface {
	GetID() string
	SetID(id string)
}

// Collection maps one resource type onto "<prefix>:<id>" keys.
type Collection[T any, P interface {
	*T
	Record
}] struct {
	kv     kv.Store
	prefix string
}

// NewCollection creates a collection for the given key prefix
func NewCollection[T any, P interface {
	*T
	Record
}](s kv.Store, prefix string) *Collection[T, P] {
	return &Collection[T, P]{kv: s, prefix: prefix}
}

// Prefix returns the resource key prefix without the separator
func (c *Collection[T, P]) Prefix() string { return c.prefix }

// Key returns the storage key for id
func (c *Collection[T, P]) Key(id string) string {
	return c.prefix + ":" + id
}

// List returns every record of the collection. It is a full scan.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Scan(ctx, c.prefix+":")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.prefix, err)
	}

	out := make([]T, 0, len(raw))
	for _, b := range raw {
		var rec T
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.prefix, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get loads one record
func (c *Collection[T, P]) Get(ctx context.Context, id string) (P, error) {
	b, err := c.kv.Get(ctx, c.Key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%s %s: %w", c.prefix, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", c.prefix, id, err)
	}

	rec := P(new(T))
	if err := json.Unmarshal(b, rec); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", c.prefix, id, err)
	}
	return rec, nil
}

// Create assigns an id when the record has none and writes it. An existing
// row with the same id is overwritten.
func (c *Collection[T, P]) Create(ctx context.Context, rec P) (P, error) {
	if rec.GetID() == "" {
		rec.SetID(NewID())
	}
	return rec, c.put(ctx, rec)
}

// Update overwrites the row at id without checking that it exists
func (c *Collection[T, P]) Update(ctx context.Context, id string, rec P) (P, error) {
	rec.SetID(id)
	return rec, c.put(ctx, rec)
}

// Delete removes the row at id; a missing row is not an error
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	if err := c.kv.Delete(ctx, c.Key(id)); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.prefix, id, err)
	}
	return nil
}

// PutOp encodes rec as a batch write
func (c *Collection[T, P]) PutOp(rec P) (kv.Op, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return kv.Op{}, fmt.Errorf("encode %s: %w", c.prefix, err)
	}
	return kv.Put(c.Key(rec.GetID()), b), nil
}

// DeleteOp builds a batch delete for id
func (c *Collection[T, P]) DeleteOp(id string) kv.Op {
	return kv.Del(c.Key(id))
}

func (c *Collection[T, P]) put(ctx context.Context, rec P) error {
	op, err := c.PutOp(rec)
	if err != nil {
		return err
	}
	if err := c.kv.Set(ctx, op.Key, op.Value); err != nil {
		return fmt.Errorf("put %s %s: %w", c.prefix, rec.GetID(), err)
	}
	return nil
}
