// Package kv is the key-value adapter every resource is persisted through.
// Values are opaque JSON documents addressed by string keys and listed by key
// prefix. The same contract is served by Redis, PostgreSQL and an in-process
// map, and callers cannot tell which one they got.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Store is the key-value contract. Delete of an absent key is not an error.
// Scan returns every value whose key starts with prefix, in no particular
// order.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([][]byte, error)
	Apply(ctx context.Context, ops []Op) error
	Close() error
}

// Op is one write in an Apply batch. A nil Value deletes Key.
type Op struct {
	Key   string
	Value []byte
}

// Put builds a set operation.
func Put(key string, value []byte) Op { return Op{Key: key, Value: value} }

// Del builds a delete operation.
func Del(key string) Op { return Op{Key: key} }

// IsDelete reports whether the op removes its key.
func (o Op) IsDelete() bool { return o.Value == nil }
