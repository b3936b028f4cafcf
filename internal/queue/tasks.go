package queue

import (
	"encoding/json"
	"time"

	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderEvent 订单事件投递任务
	TaskOrderEvent = constants.TaskOrderEvent
	// TaskInventoryLowStock 低库存告警任务
	TaskInventoryLowStock = constants.TaskInventoryLowStock
)

// OrderEventPayload 订单事件任务载荷
type OrderEventPayload struct {
	Event       string    `json:"event"`
	OrderID     uint      `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	UserID      uint      `json:"user_id"`
	Status      string    `json:"status"`
	FromStatus  string    `json:"from_status,omitempty"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LowStockPayload 低库存告警任务载荷
type LowStockPayload struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// NewOrderEventTask 创建订单事件任务
func NewOrderEventTask(payload OrderEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderEvent, body), nil
}

// NewLowStockTask 创建低库存告警任务
func NewLowStockTask(payload LowStockPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryLowStock, body), nil
}
