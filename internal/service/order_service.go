package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务：结账、取消、查询与后台状态变更
type OrderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	inventory     *InventoryService
	queueClient   *queue.Client
	adminPageSize int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, inventory *InventoryService, queueClient *queue.Client, adminPageSize int) *OrderService {
	if adminPageSize <= 0 {
		adminPageSize = constants.DefaultAdminPageSize
	}
	return &OrderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		inventory:     inventory,
		queueClient:   queueClient,
		adminPageSize: adminPageSize,
	}
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	UserID          uint
	PaymentMethod   string
	DeliveryAddress string
}

// OrderSummary 用户订单列表项
type OrderSummary struct {
	ID            uint         `json:"id"`
	OrderNo       string       `json:"order_no"`
	Status        string       `json:"status"`
	TotalAmount   models.Money `json:"total_amount"`
	PaymentMethod string       `json:"payment_method"`
	ItemCount     int          `json:"item_count"`
	TotalQuantity int          `json:"total_quantity"`
	CreatedAt     time.Time    `json:"created_at"`
}

// AdminOrderView 后台订单列表项
type AdminOrderView struct {
	OrderSummary
	UserID        uint   `json:"user_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// AdminOrderFilter 后台订单筛选
type AdminOrderFilter struct {
	Keyword  string
	Status   string
	Page     int
	PageSize int
}

// Checkout 将购物车转为订单：校验、建单、扣库存、清空购物车在同一事务内完成
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidCredentials
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	address := strings.TrimSpace(input.DeliveryAddress)
	if paymentMethod == "" {
		metrics.ObserveCheckout("invalid")
		return nil, newValidationError("payment_method", "is required")
	}
	if address == "" {
		metrics.ObserveCheckout("invalid")
		return nil, newValidationError("delivery_address", "is required")
	}

	now := time.Now()
	var order *models.Order
	var alerts []LowStockAlert
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		inventory := s.inventory.WithTx(tx)

		lines, err := cartRepo.ListByUser(input.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		shortages := make([]StockShortage, 0)
		for _, line := range lines {
			if line.Product == nil || line.Product.ID == 0 {
				shortages = append(shortages, StockShortage{ProductID: line.ProductID, Requested: line.Quantity})
				continue
			}
			if line.Quantity > line.Product.Stock {
				shortages = append(shortages, StockShortage{
					ProductID: line.ProductID,
					Name:      line.Product.Name,
					Available: line.Product.Stock,
					Requested: line.Quantity,
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Items: shortages}
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			lineTotal := line.Product.PriceAmount.Mul(line.Quantity)
			total = total.Add(lineTotal.Decimal)
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.Product.Name,
				UnitPrice:   line.Product.PriceAmount,
				Quantity:    line.Quantity,
				TotalPrice:  lineTotal,
				CreatedAt:   now,
			})
		}
		order = &models.Order{
			OrderNo:         generateOrderNo(),
			UserID:          input.UserID,
			Status:          constants.OrderStatusPending,
			TotalAmount:     models.NewMoneyFromDecimal(total),
			PaymentMethod:   paymentMethod,
			DeliveryAddress: address,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		for _, line := range lines {
			newStock, err := inventory.Reserve(line.ProductID, line.Quantity)
			if err != nil {
				if stockErr, ok := asOutOfStock(err); ok {
					return &InsufficientStockError{Items: []StockShortage{{
						ProductID: stockErr.ProductID,
						Name:      stockErr.Name,
						Available: stockErr.Available,
						Requested: line.Quantity,
					}}}
				}
				return err
			}
			if inventory.CrossedLowStock(newStock, line.Quantity) {
				alerts = append(alerts, LowStockAlert{ProductID: line.ProductID, Name: line.Product.Name, Stock: newStock})
			}
		}
		return cartRepo.ClearByUser(input.UserID)
	})
	if err != nil {
		metrics.ObserveCheckout(checkoutResult(err))
		logger.Warnw("order_checkout_failed", "user_id", input.UserID, "error", err)
		return nil, err
	}

	metrics.ObserveCheckout("ok")
	logger.Infow("order_checkout_committed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.String(),
		"items", len(order.Items),
	)
	invalidateCartCount(input.UserID)
	s.enqueueOrderEvent(order, constants.OrderEventCreated, "")
	s.inventory.EnqueueLowStockAlerts(alerts)
	return order, nil
}

func checkoutResult(err error) string {
	var shortage *InsufficientStockError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &shortage):
		return "insufficient_stock"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// Cancel 用户取消待处理订单并回补库存
func (s *OrderService) Cancel(userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidCredentials
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !IsCancellableByOwner(order.Status) {
		return nil, ErrOrderNotCancellable
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID, constants.OrderStatusPending, constants.OrderStatusCancelled, map[string]interface{}{
			"canceled_at": now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderNotCancellable
		}
		return releaseOrderItems(s.inventory.WithTx(tx), order.Items)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveCancel("user")
	logger.Infow("order_cancelled", "order_id", order.ID, "order_no", order.OrderNo, "user_id", userID)
	previous := order.Status
	order.Status = constants.OrderStatusCancelled
	order.CanceledAt = &now
	order.UpdatedAt = now
	s.enqueueOrderEvent(order, constants.OrderEventCancelled, previous)
	return order, nil
}

// ListForUser 用户订单列表
func (s *OrderService) ListForUser(userID uint, page, pageSize int) ([]OrderSummary, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidCredentials
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, summarizeOrder(&orders[i]))
	}
	return summaries, total, nil
}

// GetForUser 用户订单详情
func (s *OrderService) GetForUser(userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidCredentials
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// AdminList 后台订单列表，关键字匹配订单号、顾客姓名或邮箱
func (s *OrderService) AdminList(filter AdminOrderFilter) ([]AdminOrderView, int64, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = s.adminPageSize
	}
	status := strings.TrimSpace(filter.Status)
	if status != "" && NormalizeOrderStatus(status) == "" {
		return nil, 0, newValidationError("status", "unknown order status")
	}
	orders, total, err := s.orderRepo.ListAdmin(repository.OrderListFilter{
		Keyword:  strings.TrimSpace(filter.Keyword),
		Status:   NormalizeOrderStatus(status),
		Page:     filter.Page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	views := make([]AdminOrderView, 0, len(orders))
	for i := range orders {
		view := AdminOrderView{
			OrderSummary: summarizeOrder(&orders[i]),
			UserID:       orders[i].UserID,
		}
		if orders[i].User != nil {
			view.CustomerName = orders[i].User.Name
			view.CustomerEmail = orders[i].User.Email
		}
		views = append(views, view)
	}
	return views, total, nil
}

// AdminGet 后台订单详情（含顾客信息）
func (s *OrderService) AdminGet(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// AdminSetStatus 后台直接设置订单状态，跨越 cancelled 边界时同步库存
func (s *OrderService) AdminSetStatus(orderID uint, rawStatus string) (*models.Order, error) {
	target := NormalizeOrderStatus(rawStatus)
	if target == "" {
		return nil, newValidationError("status", "unknown order status")
	}
	order, err := s.AdminGet(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}

	previous := order.Status
	direction := stockDirection(previous, target)
	now := time.Now()
	var alerts []LowStockAlert
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		switch direction {
		case -1:
			updates["canceled_at"] = now
		case 1:
			updates["canceled_at"] = nil
		}
		affected, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID, previous, target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusChanged
		}

		inventory := s.inventory.WithTx(tx)
		switch direction {
		case -1:
			return releaseOrderItems(inventory, order.Items)
		case 1:
			reserved, err := reserveOrderItems(inventory, order.Items)
			alerts = reserved
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if direction == -1 {
		metrics.ObserveCancel("admin")
	}
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from_status", previous,
		"to_status", target,
	)
	s.inventory.EnqueueLowStockAlerts(alerts)

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil || updated == nil {
		order.Status = target
		order.UpdatedAt = now
		updated = order
	}
	event := constants.OrderEventStatusChanged
	if target == constants.OrderStatusCancelled {
		event = constants.OrderEventCancelled
	}
	s.enqueueOrderEvent(updated, event, previous)
	return updated, nil
}

func releaseOrderItems(inventory *InventoryService, items []models.OrderItem) error {
	for _, item := range items {
		if _, err := inventory.Release(item.ProductID, item.Quantity); err != nil {
			if isNotFound(err) {
				logger.Warnw("order_release_product_missing", "product_id", item.ProductID, "quantity", item.Quantity)
				continue
			}
			return err
		}
	}
	return nil
}

// reserveOrderItems 重新预占订单全部行，任一行不足时汇总全部不足行
func reserveOrderItems(inventory *InventoryService, items []models.OrderItem) ([]LowStockAlert, error) {
	var alerts []LowStockAlert
	var shortages []StockShortage
	for _, item := range items {
		newStock, err := inventory.Reserve(item.ProductID, item.Quantity)
		if err != nil {
			if stockErr, ok := asOutOfStock(err); ok {
				shortages = append(shortages, StockShortage{
					ProductID: item.ProductID,
					Name:      item.ProductName,
					Available: stockErr.Available,
					Requested: item.Quantity,
				})
				continue
			}
			if isNotFound(err) {
				shortages = append(shortages, StockShortage{
					ProductID: item.ProductID,
					Name:      item.ProductName,
					Requested: item.Quantity,
				})
				continue
			}
			return nil, err
		}
		if inventory.CrossedLowStock(newStock, item.Quantity) {
			alerts = append(alerts, LowStockAlert{ProductID: item.ProductID, Name: item.ProductName, Stock: newStock})
		}
	}
	if len(shortages) > 0 {
		return nil, &InsufficientStockError{Items: shortages}
	}
	return alerts, nil
}

func (s *OrderService) enqueueOrderEvent(order *models.Order, event, fromStatus string) {
	if s.queueClient == nil || order == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderEvent(queue.OrderEventPayload{
		Event:       event,
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		UserID:      order.UserID,
		Status:      order.Status,
		FromStatus:  fromStatus,
		TotalAmount: order.TotalAmount.String(),
		ItemCount:   len(order.Items),
		OccurredAt:  time.Now(),
	}); err != nil {
		logger.Errorw("order_enqueue_event_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"event", event,
			"error", err,
		)
	}
}

func summarizeOrder(order *models.Order) OrderSummary {
	summary := OrderSummary{
		ID:            order.ID,
		OrderNo:       order.OrderNo,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		ItemCount:     len(order.Items),
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		summary.TotalQuantity += item.Quantity
	}
	return summary
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", constants.OrderNoPrefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
