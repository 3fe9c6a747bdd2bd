package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/kafka"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/logger"
)

type capturedEvent struct {
	topic string
	event *kafka.Event
}

type capturingPublisher struct {
	events []capturedEvent
	err    error
}

func (c *capturingPublisher) Publish(ctx context.Context, topic string, event *kafka.Event) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, capturedEvent{topic: topic, event: event})
	return nil
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoSellerOrder() *domain.Order {
	return &domain.Order{
		ID:         "ord-1",
		UserID:     "cust-1",
		TotalPrice: 4500,
		Items: []domain.OrderItem{
			{ProductID: "p-1", SellerID: "s-1", Quantity: 1, Price: 1500},
			{ProductID: "p-2", SellerID: "s-2", Quantity: 1, Price: 1500},
			{ProductID: "p-3", SellerID: "s-1", Quantity: 1, Price: 1500},
		},
	}
}

func TestOrderCreated_PublishesDedupedSellers(t *testing.T) {
	sink := &capturingPublisher{}
	pub := NewOrderPublisher(sink, testLog())

	pub.OrderCreated(context.Background(), twoSellerOrder())

	require.Len(t, sink.events, 1)
	got := sink.events[0]
	assert.Equal(t, TopicOrderCreated, got.topic)
	assert.Equal(t, "order.created", got.event.EventType)
	assert.Equal(t, "ord-1", got.event.AggregateID)
	assert.Equal(t, "order", got.event.AggregateType)

	var payload OrderCreatedPayload
	require.NoError(t, json.Unmarshal(got.event.Data, &payload))
	assert.Equal(t, int64(4500), payload.TotalPrice)
	assert.Equal(t, 3, payload.ItemCount)
	assert.Equal(t, []string{"s-1", "s-2"}, payload.SellerIDs)
}

func TestStatusChanged_PublishesToStatusTopic(t *testing.T) {
	sink := &capturingPublisher{}
	pub := NewOrderPublisher(sink, testLog())

	pub.StatusChanged(context.Background(), "ord-1", domain.StatusPending, domain.StatusReadytoDelivery, "s-1", domain.RoleSeller)

	require.Len(t, sink.events, 1)
	assert.Equal(t, TopicOrderStatusChanged, sink.events[0].topic)

	var payload StatusChangedPayload
	require.NoError(t, json.Unmarshal(sink.events[0].event.Data, &payload))
	assert.Equal(t, "Pending", payload.FromStatus)
	assert.Equal(t, "ReadytoDelivery", payload.ToStatus)
	assert.Equal(t, "seller", payload.ActorRole)
}

func TestStatusChanged_CancellationFansOut(t *testing.T) {
	sink := &capturingPublisher{}
	pub := NewOrderPublisher(sink, testLog())

	pub.StatusChanged(context.Background(), "ord-1", domain.StatusPending, domain.StatusCancelled, "cust-1", domain.RoleCustomer)

	require.Len(t, sink.events, 2)
	assert.Equal(t, TopicOrderStatusChanged, sink.events[0].topic)
	assert.Equal(t, TopicOrderCancelled, sink.events[1].topic)
}

func TestPublish_CarriesCorrelationID(t *testing.T) {
	sink := &capturingPublisher{}
	pub := NewOrderPublisher(sink, testLog())

	ctx := logger.WithCorrelationID(context.Background(), "req-77")
	pub.OrderCreated(ctx, twoSellerOrder())

	require.Len(t, sink.events, 1)
	assert.Equal(t, "req-77", sink.events[0].event.CorrelationID)
}

func TestPublish_NilProducerDropsSilently(t *testing.T) {
	pub := NewOrderPublisher(nil, testLog())

	// Must not panic and must not block.
	pub.OrderCreated(context.Background(), twoSellerOrder())
	pub.StatusChanged(context.Background(), "ord-1", domain.StatusPending, domain.StatusCancelled, "cust-1", domain.RoleCustomer)
}

func TestPublish_BrokerErrorDoesNotPropagate(t *testing.T) {
	sink := &capturingPublisher{err: errors.New("broker down")}
	pub := NewOrderPublisher(sink, testLog())

	pub.OrderCreated(context.Background(), twoSellerOrder())

	assert.Empty(t, sink.events)
}
