package store

import (
	"context"
	"testing"
	"time"

	"stoktakip-service/internal/kv"
	"stoktakip-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *kv.MemoryStore) {
	mem := kv.NewMemoryStore()
	return NewStore(mem), mem
}

func TestCreateAssignsIDAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	in := &models.Product{Name: "Case", Category: "Kılıf", Stock: 50, MinQuantity: 5, Price: 10}
	created, err := s.Products.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateKeepsCallerID(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore()

	_, err := s.Categories.Create(ctx, &models.Category{Base: models.Base{ID: "kilif"}, Name: "Kılıf"})
	require.NoError(t, err)

	_, err = mem.Get(ctx, "category:kilif")
	assert.NoError(t, err)
}

func TestCreateWithCollidingIDOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.Expenses.Create(ctx, &models.Expense{Base: models.Base{ID: "e1"}, Amount: 10})
	require.NoError(t, err)
	_, err = s.Expenses.Create(ctx, &models.Expense{Base: models.Base{ID: "e1"}, Amount: 25})
	require.NoError(t, err)

	all, err := s.Expenses.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 25.0, all[0].Amount)
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Repairs.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDoesNotRequireExistingRow(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	updated, err := s.Customers.Update(ctx, "c9", &models.Customer{Base: models.Base{ID: "other"}, Name: "Ali"})
	require.NoError(t, err)
	assert.Equal(t, "c9", updated.ID)

	got, err := s.Customers.Get(ctx, "c9")
	require.NoError(t, err)
	assert.Equal(t, "Ali", got.Name)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	s, _ := newTestStore()
	assert.NoError(t, s.Sales.Delete(context.Background(), "missing"))
}

func TestListIsScopedToPrefix(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.Customers.Create(ctx, &models.Customer{Name: "Ayşe"})
	require.NoError(t, err)
	_, err = s.Transactions.Create(ctx, &models.CustomerTransaction{CustomerID: "x", Amount: 1})
	require.NoError(t, err)

	customers, err := s.Customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	empty, err := s.PhoneSales.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestApplyAcrossCollections(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	product := &models.Product{Base: models.Base{ID: "p1"}, Stock: 3}
	sale := &models.Sale{Base: models.Base{ID: "s1"}, Date: time.Now()}

	productOp, err := s.Products.PutOp(product)
	require.NoError(t, err)
	saleOp, err := s.Sales.PutOp(sale)
	require.NoError(t, err)

	require.NoError(t, s.Apply(ctx, []kv.Op{productOp, saleOp}))

	_, err = s.Sales.Get(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, s.Apply(ctx, []kv.Op{s.Sales.DeleteOp("s1")}))
	_, err = s.Sales.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionsForCustomer(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	for _, cid := range []string{"c1", "c2", "c1"} {
		_, err := s.Transactions.Create(ctx, &models.CustomerTransaction{CustomerID: cid, Type: models.TransactionDebt})
		require.NoError(t, err)
	}

	txs, err := s.TransactionsForCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestProductAcceptsLegacyQuantity(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore()

	require.NoError(t, mem.Set(ctx, "product:old", []byte(`{"id":"old","name":"Kablo","quantity":7}`)))

	p, err := s.Products.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, "old", p.ID)
}
