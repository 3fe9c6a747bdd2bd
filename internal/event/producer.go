// Package event publishes order lifecycle events to Kafka. Publishing is
// best effort: a broker outage must never fail the request that triggered
// the event.
package event

import (
	"context"
	"log/slog"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/kafka"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/logger"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
)

// Kafka topics for order lifecycle events.
const (
	TopicOrderCreated       = "marketplace.order.created"
	TopicOrderStatusChanged = "marketplace.order.status_changed"
	TopicOrderCancelled     = "marketplace.order.cancelled"
)

const source = "marketplace-backoffice"

// Publisher is the subset of the Kafka producer used by the order publisher.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// OrderCreatedPayload is the data section of an order created event.
type OrderCreatedPayload struct {
	OrderID    string   `json:"order_id"`
	UserID     string   `json:"user_id"`
	TotalPrice int64    `json:"total_price"`
	ItemCount  int      `json:"item_count"`
	SellerIDs  []string `json:"seller_ids"`
}

// StatusChangedPayload is the data section of a status changed event.
type StatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    string `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
}

// OrderPublisher emits order lifecycle events.
type OrderPublisher struct {
	producer Publisher
	logger   *slog.Logger
}

// NewOrderPublisher creates an order event publisher. A nil producer yields a
// publisher that silently drops events, which keeps local setups without
// Kafka working.
func NewOrderPublisher(producer Publisher, log *slog.Logger) *OrderPublisher {
	if log == nil {
		log = logger.New(source, "info")
	}
	return &OrderPublisher{producer: producer, logger: log}
}

// OrderCreated publishes an order created event.
func (p *OrderPublisher) OrderCreated(ctx context.Context, o *domain.Order) {
	sellers := make(map[string]struct{}, len(o.Items))
	sellerIDs := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, seen := sellers[item.SellerID]; seen {
			continue
		}
		sellers[item.SellerID] = struct{}{}
		sellerIDs = append(sellerIDs, item.SellerID)
	}

	p.publish(ctx, TopicOrderCreated, "order.created", o.ID, OrderCreatedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalPrice: o.TotalPrice,
		ItemCount:  len(o.Items),
		SellerIDs:  sellerIDs,
	})
}

// StatusChanged publishes a status changed event. Transitions into Cancelled
// additionally go to the cancellation topic so refund consumers do not have
// to filter the full status stream.
func (p *OrderPublisher) StatusChanged(ctx context.Context, orderID string, from, to domain.Status, actor string, role domain.Role) {
	payload := StatusChangedPayload{
		OrderID:    orderID,
		FromStatus: string(from),
		ToStatus:   string(to),
		ActorID:    actor,
		ActorRole:  string(role),
	}

	p.publish(ctx, TopicOrderStatusChanged, "order.status_changed", orderID, payload)
	if to == domain.StatusCancelled {
		p.publish(ctx, TopicOrderCancelled, "order.cancelled", orderID, payload)
	}
}

func (p *OrderPublisher) publish(ctx context.Context, topic, eventType, orderID string, payload any) {
	if p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, orderID, "order", source, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		// Already logged by the producer; the request proceeds regardless.
		return
	}
}
