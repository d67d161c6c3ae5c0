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

// SaleService records product sales and keeps product stock in step with them
type SaleService struct {
	store          *store.Store
	sales          *Resource[models.Sale, *models.Sale]
	locker         kv.Locker
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	st *store.Store,
	resources *Resources,
	locker kv.Locker,
	eventPublisher *broker.EventPublisher,
) *SaleService {
	return &SaleService{
		store:          st,
		sales:          resources.Sales,
		locker:         locker,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// List returns every sale
func (s *SaleService) List(ctx context.Context) ([]models.Sale, error) {
	return s.sales.List(ctx)
}

// Update overwrites a sale with recomputed totals. Stock is not adjusted, so
// each item's stockDeducted always comes from the stored row: carried over
// when the item still sits at the same position with the same product, zero
// otherwise. A client cannot change how much a later delete gives back.
func (s *SaleService) Update(ctx context.Context, id string, sale *models.Sale) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.Update")
	defer span.End()

	release, err := s.locker.Lock(ctx, s.store.Sales.Key(id))
	if err != nil {
		return nil, fmt.Errorf("lock sale: %w", err)
	}
	defer release()

	existing, err := s.store.Sales.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for i := range sale.Items {
		deducted := 0
		if existing != nil && i < len(existing.Items) && existing.Items[i].ProductID == sale.Items[i].ProductID {
			deducted = deductedBy(existing.Items[i])
		}
		sale.Items[i].StockDeducted = &deducted
	}

	return s.sales.Update(ctx, id, sale)
}

// deductedBy is what deleting the sale gives back for item. Rows written
// before deductions were tracked took their full quantity.
func deductedBy(item models.SaleItem) int {
	if item.StockDeducted != nil {
		return *item.StockDeducted
	}
	return item.Quantity
}

// Create writes the sale and decrements each referenced product's stock by
// the sold quantity, never below zero. Products and sale are written in one
// batch while the product keys are locked. Items pointing at unknown
// products are kept on the sale but move no stock.
func (s *SaleService) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.Create")
	defer span.End()

	if err := s.sales.runPrepare(sale); err != nil {
		return nil, err
	}
	if sale.ID == "" {
		sale.ID = store.NewID()
	}

	movements, err := s.deductStock(ctx, sale)
	if err != nil {
		return nil, err
	}

	util.SalesCreatedTotal.Inc()
	s.logger.Info("Sale created",
		zap.String("sale_id", sale.ID),
		zap.Int("items", len(sale.Items)),
		zap.Float64("total_price", sale.TotalPrice))

	if err := s.eventPublisher.PublishSaleCreated(ctx, sale, movements); err != nil {
		s.logger.Error("Failed to publish SaleCreated event", zap.Error(err))
	}

	return sale, nil
}

// deductStock holds the product locks only until the batch is written
func (s *SaleService) deductStock(ctx context.Context, sale *models.Sale) ([]models.StockMovement, error) {
	release, err := kv.LockKeys(ctx, s.locker, s.productKeys(sale.Items)...)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer release()

	products, err := s.loadProducts(ctx, sale.Items)
	if err != nil {
		return nil, err
	}

	movements := make([]models.StockMovement, 0, len(sale.Items))
	for i := range sale.Items {
		item := &sale.Items[i]

		product, ok := products[item.ProductID]
		if !ok {
			s.logger.Warn("Sale item references unknown product",
				zap.String("sale_id", sale.ID),
				zap.String("product_id", item.ProductID))
			zero := 0
			item.StockDeducted = &zero
			continue
		}

		if item.ProductName == "" {
			item.ProductName = product.Name
		}

		deducted := item.Quantity
		available := product.Stock
		if available < 0 {
			available = 0
		}
		if deducted > available {
			deducted = available
			util.StockClampedTotal.Inc()
			s.logger.Warn("Sale quantity exceeds stock, clamping at zero",
				zap.String("product_id", product.ID),
				zap.Int("stock", product.Stock),
				zap.Int("quantity", item.Quantity))
		}

		product.Stock = available - deducted
		item.StockDeducted = &deducted
		movements = append(movements, models.StockMovement{
			ProductID: product.ID,
			Delta:     -deducted,
			Stock:     product.Stock,
		})
	}

	ops, err := s.productOps(products)
	if err != nil {
		return nil, err
	}
	saleOp, err := s.store.Sales.PutOp(sale)
	if err != nil {
		return nil, err
	}

	if err := s.store.Apply(ctx, append(ops, saleOp)); err != nil {
		return nil, fmt.Errorf("failed to write sale %s: %w", sale.ID, err)
	}
	return movements, nil
}

// Delete removes a sale and gives back exactly the stock it took. Deleting a
// missing sale is a no-op.
func (s *SaleService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "SaleService.Delete")
	defer span.End()

	movements, found, err := s.restoreStock(ctx, id)
	if err != nil || !found {
		return err
	}

	util.SalesDeletedTotal.Inc()
	s.logger.Info("Sale deleted, stock restored", zap.String("sale_id", id), zap.Int("products", len(movements)))

	if err := s.eventPublisher.PublishSaleDeleted(ctx, id, movements); err != nil {
		s.logger.Error("Failed to publish SaleDeleted event", zap.Error(err))
	}

	return nil
}

// restoreStock holds the sale and product locks only until the batch is written
func (s *SaleService) restoreStock(ctx context.Context, id string) ([]models.StockMovement, bool, error) {
	releaseSale, err := s.locker.Lock(ctx, s.store.Sales.Key(id))
	if err != nil {
		return nil, false, fmt.Errorf("lock sale: %w", err)
	}
	defer releaseSale()

	sale, err := s.store.Sales.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	release, err := kv.LockKeys(ctx, s.locker, s.productKeys(sale.Items)...)
	if err != nil {
		return nil, false, fmt.Errorf("lock products: %w", err)
	}
	defer release()

	products, err := s.loadProducts(ctx, sale.Items)
	if err != nil {
		return nil, false, err
	}

	movements := make([]models.StockMovement, 0, len(sale.Items))
	for _, item := range sale.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}

		restore := deductedBy(item)
		if restore == 0 {
			continue
		}

		product.Stock += restore
		movements = append(movements, models.StockMovement{
			ProductID: product.ID,
			Delta:     restore,
			Stock:     product.Stock,
		})
	}

	ops, err := s.productOps(products)
	if err != nil {
		return nil, false, err
	}

	if err := s.store.Apply(ctx, append(ops, s.store.Sales.DeleteOp(id))); err != nil {
		return nil, false, fmt.Errorf("failed to delete sale %s: %w", id, err)
	}
	return movements, true, nil
}

func (s *SaleService) productKeys(items []models.SaleItem) []string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			keys = append(keys, s.store.Products.Key(item.ProductID))
		}
	}
	return keys
}

// loadProducts reads each distinct referenced product once; missing ones are
// left out of the map.
func (s *SaleService) loadProducts(ctx context.Context, items []models.SaleItem) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		if _, seen := products[item.ProductID]; seen {
			continue
		}

		p, err := s.store.Products.Get(ctx, item.ProductID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}
		products[item.ProductID] = p
	}
	return products, nil
}

func (s *SaleService) productOps(products map[string]*models.Product) ([]kv.Op, error) {
	ops := make([]kv.Op, 0, len(products)+1)
	for _, p := range products {
		op, err := s.store.Products.PutOp(p)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
