package service

import (
	"context"

	"stoktakip-service/internal/broker"
	"stoktakip-service/internal/models"
	"stoktakip-service/internal/store"
	"stoktakip-service/internal/util"

	"go.uber.org/zap"
)

// RepairService handles the repair workflow on top of the plain resource
type RepairService struct {
	store          *store.Store
	repairs        *Resource[models.RepairRecord, *models.RepairRecord]
	eventPublisher *broker.EventPublisher
	now            Clock
	logger         *zap.Logger
}

// NewRepairService creates a new repair service
func NewRepairService(st *store.Store, resources *Resources, eventPublisher *broker.EventPublisher, now Clock) *RepairService {
	return &RepairService{
		store:          st,
		repairs:        resources.Repairs,
		eventPublisher: eventPublisher,
		now:            now,
		logger:         util.GetLogger(),
	}
}

// UpdateStatus moves an existing repair to status. Delivery stamps
// deliveredAt the first time.
func (r *RepairService) UpdateStatus(ctx context.Context, id, status string) (*models.RepairRecord, error) {
	ctx, span := util.StartSpan(ctx, "RepairService.UpdateStatus")
	defer span.End()

	if err := validateStruct(&RepairStatusUpdate{Status: status}); err != nil {
		return nil, err
	}

	repair, err := r.store.Repairs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := repair.Status
	repair.Status = status

	updated, err := r.repairs.Update(ctx, id, repair)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Repair status changed",
		zap.String("repair_id", id),
		zap.String("from", from),
		zap.String("to", status))

	if from != status {
		if err := r.eventPublisher.PublishRepairStatusChanged(ctx, id, from, status); err != nil {
			r.logger.Error("Failed to publish RepairStatusChanged event", zap.Error(err))
		}
	}

	return updated, nil
}
