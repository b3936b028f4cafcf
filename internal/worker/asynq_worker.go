package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultOrderTopic     = "storefront.orders"
	defaultInventoryTopic = "storefront.inventory"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderEvent, c.handleOrderEvent)
	mux.HandleFunc(queue.TaskInventoryLowStock, c.handleLowStock)
}

// LowStockEvent 低库存事件
type LowStockEvent struct {
	Event string `json:"event"`
	queue.LowStockPayload
}

func (c *Consumer) handleOrderEvent(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_event_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || strings.TrimSpace(payload.Event) == "" {
		logger.Debugw("worker_order_event_skip_invalid_payload", "order_id", payload.OrderID, "event", payload.Event)
		return nil
	}
	if c.Publisher == nil {
		logger.Warnw("worker_order_event_skip_publisher_nil", "order_id", payload.OrderID)
		return nil
	}

	topic := c.orderTopic()
	key := payload.OrderNo
	if key == "" {
		key = strconv.FormatUint(uint64(payload.OrderID), 10)
	}
	if err := c.Publisher.Publish(ctx, topic, key, payload); err != nil {
		logger.Warnw("worker_order_event_publish_failed",
			"order_id", payload.OrderID,
			"order_no", payload.OrderNo,
			"event", payload.Event,
			"topic", topic,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_order_event_published", "order_no", payload.OrderNo, "event", payload.Event, "topic", topic)
	return nil
}

func (c *Consumer) handleLowStock(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_low_stock_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LowStockPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_low_stock_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_low_stock_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	logger.Warnw("inventory_low_stock",
		"product_id", payload.ProductID,
		"product_name", payload.Name,
		"stock", payload.Stock,
		"threshold", payload.Threshold,
	)
	if c.Publisher == nil {
		return nil
	}

	topic := c.inventoryTopic()
	event := LowStockEvent{Event: "inventory.low_stock", LowStockPayload: payload}
	if err := c.Publisher.Publish(ctx, topic, strconv.FormatUint(uint64(payload.ProductID), 10), event); err != nil {
		logger.Warnw("worker_low_stock_publish_failed", "product_id", payload.ProductID, "topic", topic, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) orderTopic() string {
	if c.Config != nil {
		if topic := strings.TrimSpace(c.Config.Events.OrderTopic); topic != "" {
			return topic
		}
	}
	return defaultOrderTopic
}

func (c *Consumer) inventoryTopic() string {
	if c.Config != nil {
		if topic := strings.TrimSpace(c.Config.Events.InventoryTopic); topic != "" {
			return topic
		}
	}
	return defaultInventoryTopic
}
