package service

import (
	"context"
	"fmt"

	"stoktakip-service/internal/broker"
	"stoktakip-service/internal/models"
	"stoktakip-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService handles product imports
type CatalogService struct {
	products       *Resource[models.Product, *models.Product]
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(resources *Resources, eventPublisher *broker.EventPublisher) *CatalogService {
	return &CatalogService{
		products:       resources.Products,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// BulkCreate creates products one by one. It stops at the first failure and
// returns what was written before it; those rows are not rolled back.
func (c *CatalogService) BulkCreate(ctx context.Context, products []*models.Product) ([]*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.BulkCreate")
	defer span.End()

	created := make([]*models.Product, 0, len(products))
	for i, p := range products {
		if p == nil {
			return created, invalid("product %d is null", i)
		}

		out, err := c.products.Create(ctx, p)
		if err != nil {
			c.logger.Warn("Bulk import stopped",
				zap.Int("index", i),
				zap.Int("written", len(created)),
				zap.Error(err))
			return created, fmt.Errorf("product %d: %w", i, err)
		}
		created = append(created, out)
	}

	c.logger.Info("Products imported", zap.Int("count", len(created)))

	if err := c.eventPublisher.PublishProductsImported(ctx, len(created)); err != nil {
		c.logger.Error("Failed to publish ProductsImported event", zap.Error(err))
	}

	return created, nil
}
