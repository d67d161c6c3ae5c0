package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stoktakip-service/internal/models"
	"stoktakip-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	sink Sink
	now  func() time.Time
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(sink Sink) *EventPublisher {
	return &EventPublisher{sink: sink, now: time.Now}
}

func (ep *EventPublisher) base(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: ep.now(),
	}
}

func (ep *EventPublisher) publish(ctx context.Context, eventType, key string, event interface{}) error {
	if err := ep.sink.PublishEvent(ctx, key, event); err != nil {
		util.EventsFailedTotal.WithLabelValues(eventType).Inc()
		return err
	}
	util.EventsPublishedTotal.WithLabelValues(eventType).Inc()
	return nil
}

// PublishSaleCreated publishes SaleCreated event
func (ep *EventPublisher) PublishSaleCreated(ctx context.Context, sale *models.Sale, movements []models.StockMovement) error {
	event := &models.SaleCreatedEvent{
		BaseEvent:   ep.base(models.EventTypeSaleCreated),
		SaleID:      sale.ID,
		TotalPrice:  sale.TotalPrice,
		TotalProfit: sale.TotalProfit,
		Movements:   movements,
	}
	return ep.publish(ctx, event.EventType, "sale-"+sale.ID, event)
}

// PublishSaleDeleted publishes SaleDeleted event
func (ep *EventPublisher) PublishSaleDeleted(ctx context.Context, saleID string, movements []models.StockMovement) error {
	event := &models.SaleDeletedEvent{
		BaseEvent: ep.base(models.EventTypeSaleDeleted),
		SaleID:    saleID,
		Movements: movements,
	}
	return ep.publish(ctx, event.EventType, "sale-"+saleID, event)
}

// PublishTransactionPosted publishes a ledger posting with resulting balances
func (ep *EventPublisher) PublishTransactionPosted(ctx context.Context, tx *models.CustomerTransaction, customer *models.Customer) error {
	event := &models.TransactionPostedEvent{
		BaseEvent:     ep.base(models.EventTypeTransactionPosted),
		TransactionID: tx.ID,
		CustomerID:    tx.CustomerID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Debt:          customer.Debt,
		Credit:        customer.Credit,
	}
	return ep.publish(ctx, event.EventType, "customer-"+tx.CustomerID, event)
}

// PublishRepairStatusChanged publishes a repair status move
func (ep *EventPublisher) PublishRepairStatusChanged(ctx context.Context, repairID, from, to string) error {
	event := &models.RepairStatusChangedEvent{
		BaseEvent: ep.base(models.EventTypeRepairStatusChanged),
		RepairID:  repairID,
		From:      from,
		To:        to,
	}
	return ep.publish(ctx, event.EventType, "repair-"+repairID, event)
}

// PublishProductsImported publishes the outcome of a bulk import
func (ep *EventPublisher) PublishProductsImported(ctx context.Context, count int) error {
	event := &models.ProductsImportedEvent{
		BaseEvent: ep.base(models.EventTypeProductsImported),
		Count:     count,
	}
	return ep.publish(ctx, event.EventType, "products", event)
}

// EventFunc handles one decoded event. raw is the full message value.
type EventFunc func(ctx context.Context, base models.BaseEvent, key string, raw []byte) error

// EventHandler routes incoming messages by event_type
type EventHandler struct {
	handlers map[string]EventFunc
	fallback EventFunc
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{handlers: make(map[string]EventFunc)}
}

// On registers a handler for one event type
func (eh *EventHandler) On(eventType string, fn EventFunc) {
	eh.handlers[eventType] = fn
}

// OnAny registers the handler used for types without a dedicated one
func (eh *EventHandler) OnAny(fn EventFunc) {
	eh.fallback = fn
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}
	if base.EventID == "" || base.EventType == "" {
		return fmt.Errorf("event without id or type at offset %d", msg.Offset)
	}

	fn, ok := eh.handlers[base.EventType]
	if !ok {
		fn = eh.fallback
	}
	if fn == nil {
		return nil
	}
	return fn(ctx, base, string(msg.Key), msg.Value)
}
