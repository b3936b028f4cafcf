package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

type publishedMessage struct {
	topic string
	key   string
	body  []byte
}

type recordingPublisher struct {
	messages []publishedMessage
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.messages = append(p.messages, publishedMessage{topic: topic, key: key, body: body})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestConsumer(publisher *recordingPublisher) *Consumer {
	cfg := &config.Config{Events: config.EventsConfig{OrderTopic: "orders.test", InventoryTopic: "inventory.test"}}
	return NewConsumer(&provider.Container{Config: cfg, Publisher: publisher})
}

func TestHandleOrderEventPublishesKeyedByOrderNo(t *testing.T) {
	publisher := &recordingPublisher{}
	consumer := newTestConsumer(publisher)
	task, err := queue.NewOrderEventTask(queue.OrderEventPayload{
		Event:       "order.created",
		OrderID:     7,
		OrderNo:     "SF20260101120000123456",
		UserID:      3,
		Status:      "pending",
		TotalAmount: "30.00",
		ItemCount:   2,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	if err := consumer.handleOrderEvent(context.Background(), task); err != nil {
		t.Fatalf("handle order event failed: %v", err)
	}
	if len(publisher.messages) != 1 {
		t.Fatalf("want 1 published message got %d", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.topic != "orders.test" || msg.key != "SF20260101120000123456" {
		t.Fatalf("unexpected topic/key: %s %s", msg.topic, msg.key)
	}
	var decoded queue.OrderEventPayload
	if err := json.Unmarshal(msg.body, &decoded); err != nil {
		t.Fatalf("decode published body failed: %v", err)
	}
	if decoded.Event != "order.created" || decoded.TotalAmount != "30.00" {
		t.Fatalf("unexpected published event: %+v", decoded)
	}
}

func TestHandleOrderEventSkipsInvalidPayload(t *testing.T) {
	publisher := &recordingPublisher{}
	consumer := newTestConsumer(publisher)

	if err := consumer.handleOrderEvent(context.Background(), asynq.NewTask(queue.TaskOrderEvent, []byte("{"))); err == nil {
		t.Fatalf("malformed payload should fail for retry")
	}
	if err := consumer.handleOrderEvent(context.Background(), asynq.NewTask(queue.TaskOrderEvent, []byte(`{"event":"order.created"}`))); err != nil {
		t.Fatalf("payload without order id should be skipped, got %v", err)
	}
	if len(publisher.messages) != 0 {
		t.Fatalf("nothing should be published, got %d", len(publisher.messages))
	}
}

func TestHandleOrderEventReturnsPublishError(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	consumer := newTestConsumer(publisher)
	task, _ := queue.NewOrderEventTask(queue.OrderEventPayload{Event: "order.cancelled", OrderID: 1, OrderNo: "SF1"})

	if err := consumer.handleOrderEvent(context.Background(), task); err == nil {
		t.Fatalf("publish failure should surface so asynq retries")
	}
}

func TestHandleLowStockPublishesToInventoryTopic(t *testing.T) {
	publisher := &recordingPublisher{}
	consumer := newTestConsumer(publisher)
	task, err := queue.NewLowStockTask(queue.LowStockPayload{ProductID: 42, Name: "Keyboard", Stock: 2, Threshold: 5})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	if err := consumer.handleLowStock(context.Background(), task); err != nil {
		t.Fatalf("handle low stock failed: %v", err)
	}
	if len(publisher.messages) != 1 {
		t.Fatalf("want 1 published message got %d", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.topic != "inventory.test" || msg.key != "42" {
		t.Fatalf("unexpected topic/key: %s %s", msg.topic, msg.key)
	}
	var decoded LowStockEvent
	if err := json.Unmarshal(msg.body, &decoded); err != nil {
		t.Fatalf("decode published body failed: %v", err)
	}
	if decoded.Event != "inventory.low_stock" || decoded.Stock != 2 || decoded.Name != "Keyboard" {
		t.Fatalf("unexpected low stock event: %+v", decoded)
	}
}

func TestTopicsFallBackToDefaults(t *testing.T) {
	consumer := NewConsumer(&provider.Container{Config: &config.Config{}})
	if got := consumer.orderTopic(); got != defaultOrderTopic {
		t.Fatalf("order topic want %s got %s", defaultOrderTopic, got)
	}
	if got := consumer.inventoryTopic(); got != defaultInventoryTopic {
		t.Fatalf("inventory topic want %s got %s", defaultInventoryTopic, got)
	}
}
