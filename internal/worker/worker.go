package worker

import (
	"context"
	"encoding/json"

	"stoktakip-service/internal/broker"
	"stoktakip-service/internal/models"
	"stoktakip-service/internal/store"
	"stoktakip-service/internal/util"

	"go.uber.org/zap"
)

// ActivityWorker consumes domain events and keeps them as activity:<event id>
// rows, giving the shop an audit trail of stock and ledger changes
type ActivityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	logger       *zap.Logger
}

// NewActivityWorker creates a new activity worker
func NewActivityWorker(consumer *broker.Consumer, st *store.Store) *ActivityWorker {
	w := &ActivityWorker{
		consumer: consumer,
		store:    st,
		logger:   util.GetLogger(),
	}

	w.eventHandler = broker.NewEventHandler()
	w.eventHandler.OnAny(w.record)

	return w
}

// Handler exposes the message router, mainly for tests
func (w *ActivityWorker) Handler() *broker.EventHandler {
	return w.eventHandler
}

// Start blocks consuming until ctx is cancelled
func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ActivityWorker) Stop() error {
	w.logger.Info("Stopping activity worker")
	return w.consumer.Close()
}

// record stores the event keyed by its id, so redelivery overwrites the
// same row instead of duplicating it
func (w *ActivityWorker) record(ctx context.Context, base models.BaseEvent, key string, raw []byte) error {
	entry := &models.ActivityEntry{
		Base:      models.Base{ID: base.EventID},
		EventType: base.EventType,
		Key:       key,
		Payload:   json.RawMessage(raw),
		Timestamp: base.Timestamp,
	}

	if _, err := w.store.Activity.Create(ctx, entry); err != nil {
		return err
	}

	w.logger.Debug("Activity recorded",
		zap.String("event_id", base.EventID),
		zap.String("event_type", base.EventType))
	return nil
}
