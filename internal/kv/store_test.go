package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "product:missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "product:1", []byte(`{"id":"1","name":"Case"}`)))

		v, err := s.Get(ctx, "product:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"1","name":"Case"}`, string(v))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "product:1", []byte(`{"id":"1","name":"Cover"}`)))

		v, err := s.Get(ctx, "product:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"1","name":"Cover"}`, string(v))
	})

	t.Run("scan by prefix", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "product:2", []byte(`{"id":"2"}`)))
		require.NoError(t, s.Set(ctx, "sale:1", []byte(`{"id":"s1"}`)))
		require.NoError(t, s.Set(ctx, "phone-sale:1", []byte(`{"id":"p1"}`)))

		products, err := s.Scan(ctx, "product:")
		require.NoError(t, err)
		assert.Len(t, products, 2)

		sales, err := s.Scan(ctx, "sale:")
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.JSONEq(t, `{"id":"s1"}`, string(sales[0]))

		none, err := s.Scan(ctx, "expense:")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "product:2"))
		require.NoError(t, s.Delete(ctx, "product:2"))

		_, err := s.Get(ctx, "product:2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("apply batch", func(t *testing.T) {
		err := s.Apply(ctx, []Op{
			Put("customer:1", []byte(`{"id":"1","debt":10}`)),
			Put("customer-transaction:1", []byte(`{"id":"t1"}`)),
			Del("sale:1"),
		})
		require.NoError(t, err)

		_, err = s.Get(ctx, "sale:1")
		assert.ErrorIs(t, err, ErrNotFound)

		customers, err := s.Scan(ctx, "customer:")
		require.NoError(t, err)
		assert.Len(t, customers, 1)

		txs, err := s.Scan(ctx, "customer-transaction:")
		require.NoError(t, err)
		assert.Len(t, txs, 1)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte(`{"id":"1"}`)
	require.NoError(t, s.Set(ctx, "category:1", value))
	value[2] = 'X'

	got, err := s.Get(ctx, "category:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(got))

	got[2] = 'Y'
	again, _ := s.Get(ctx, "category:1")
	assert.JSONEq(t, `{"id":"1"}`, string(again))
}

func TestInstrumentedStorePassesThrough(t *testing.T) {
	mem := NewMemoryStore()
	s := WithMetrics(mem, BackendMemory)

	runStoreContract(t, s)
	assert.Equal(t, 4, mem.Len())
}

func TestEscapeHelpers(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
	assert.Equal(t, `phone\_sale\%`, escapeLike("phone_sale%"))
	assert.Equal(t, "product:", escapeGlob("product:"))
}
