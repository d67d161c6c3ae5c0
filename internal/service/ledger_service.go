package service

import (
	"context"
	"errors"
	"fmt"

	"stoktakip-service/internal/broker"
	"stoktakip-service/internal/kv"
	"stoktakip-service/internal/models"
	"stoktakip-service/internal/store"
	"stoktakip-service/internal/util"

	"go.uber.org/zap"
)

// LedgerService owns customer accounts (cari) and their balance postings
type LedgerService struct {
	store          *store.Store
	customers      *Resource[models.Customer, *models.Customer]
	transactions   *Resource[models.CustomerTransaction, *models.CustomerTransaction]
	locker         kv.Locker
	eventPublisher *broker.EventPublisher
	now            Clock
	logger         *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	st *store.Store,
	resources *Resources,
	locker kv.Locker,
	eventPublisher *broker.EventPublisher,
	now Clock,
) *LedgerService {
	return &LedgerService{
		store:          st,
		customers:      resources.Customers,
		transactions:   resources.Transactions,
		locker:         locker,
		eventPublisher: eventPublisher,
		now:            now,
		logger:         util.GetLogger(),
	}
}

// PostTransaction applies a posting to the customer's balances and stores
// both records in one batch.
func (l *LedgerService) PostTransaction(ctx context.Context, tx *models.CustomerTransaction) (*models.CustomerTransaction, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.PostTransaction")
	defer span.End()

	if err := validateStruct(tx); err != nil {
		return nil, err
	}

	release, err := l.locker.Lock(ctx, l.store.Customers.Key(tx.CustomerID))
	if err != nil {
		return nil, fmt.Errorf("lock customer: %w", err)
	}
	defer release()

	customer, err := l.store.Customers.Get(ctx, tx.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := ApplyTransaction(customer, tx.Type, tx.Amount); err != nil {
		return nil, err
	}

	if tx.ID == "" {
		tx.ID = store.NewID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = l.now()
	}

	customerOp, err := l.store.Customers.PutOp(customer)
	if err != nil {
		return nil, err
	}
	txOp, err := l.store.Transactions.PutOp(tx)
	if err != nil {
		return nil, err
	}

	if err := l.store.Apply(ctx, []kv.Op{customerOp, txOp}); err != nil {
		return nil, fmt.Errorf("failed to post transaction: %w", err)
	}

	util.CustomerTransactionsTotal.WithLabelValues(tx.Type).Inc()
	l.logger.Info("Customer transaction posted",
		zap.String("customer_id", customer.ID),
		zap.String("type", tx.Type),
		zap.Float64("amount", tx.Amount),
		zap.Float64("debt", customer.Debt),
		zap.Float64("credit", customer.Credit))

	if err := l.eventPublisher.PublishTransactionPosted(ctx, tx, customer); err != nil {
		l.logger.Error("Failed to publish TransactionPosted event", zap.Error(err))
	}

	return tx, nil
}

// ApplyTransaction mutates the customer's running balances. Payments never
// push a balance below zero.
func ApplyTransaction(c *models.Customer, txType string, amount float64) error {
	switch txType {
	case models.TransactionDebt:
		c.Debt += amount
	case models.TransactionCredit:
		c.Credit += amount
	case models.TransactionPaymentReceived:
		c.Debt = floorZero(c.Debt - amount)
	case models.TransactionPaymentMade:
		c.Credit = floorZero(c.Credit - amount)
	default:
		return invalid("unknown transaction type %q", txType)
	}
	return nil
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// ListTransactions returns all postings, or one customer's when customerID is set
func (l *LedgerService) ListTransactions(ctx context.Context, customerID string) ([]models.CustomerTransaction, error) {
	if customerID == "" {
		return l.transactions.List(ctx)
	}
	return l.store.TransactionsForCustomer(ctx, customerID)
}

// DeleteTransaction removes a posting record. Balances are left as they are.
func (l *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	return l.transactions.Delete(ctx, id)
}

// CreateCustomer opens an account with zero balances
func (l *LedgerService) CreateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	c.Debt, c.Credit = 0, 0
	return l.customers.Create(ctx, c)
}

// UpdateCustomer overwrites the account details but keeps the stored
// balances, which only postings may change.
func (l *LedgerService) UpdateCustomer(ctx context.Context, id string, c *models.Customer) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.UpdateCustomer")
	defer span.End()

	release, err := l.locker.Lock(ctx, l.store.Customers.Key(id))
	if err != nil {
		return nil, fmt.Errorf("lock customer: %w", err)
	}
	defer release()

	existing, err := l.store.Customers.Get(ctx, id)
	switch {
	case err == nil:
		c.Debt, c.Credit = existing.Debt, existing.Credit
		if c.CreatedAt.IsZero() {
			c.CreatedAt = existing.CreatedAt
		}
	case errors.Is(err, ErrNotFound):
		c.Debt, c.Credit = 0, 0
	default:
		return nil, err
	}

	return l.customers.Update(ctx, id, c)
}

// Customers exposes the plain customer listing and deletion
func (l *LedgerService) Customers() *Resource[models.Customer, *models.Customer] {
	return l.customers
}
