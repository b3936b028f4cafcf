package service

import (
	"fmt"
	"time"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultLowStockThreshold = 5
	lowStockAlertWindow      = 30 * time.Minute
)

// InventoryService 库存台账：原子预占、回补与后台直接设置
type InventoryService struct {
	productRepo       repository.ProductRepository
	queueClient       *queue.Client
	lowStockThreshold int
}

// LowStockAlert 预占后跌破阈值的商品
type LowStockAlert struct {
	ProductID uint
	Name      string
	Stock     int
}

// NewInventoryService 创建库存服务
func NewInventoryService(productRepo repository.ProductRepository, queueClient *queue.Client, lowStockThreshold int) *InventoryService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = defaultLowStockThreshold
	}
	return &InventoryService{
		productRepo:       productRepo,
		queueClient:       queueClient,
		lowStockThreshold: lowStockThreshold,
	}
}

// WithTx 返回绑定事务的库存服务，供结账与取消在同一事务内调用
func (s *InventoryService) WithTx(tx *gorm.DB) *InventoryService {
	if tx == nil {
		return s
	}
	clone := *s
	clone.productRepo = s.productRepo.WithTx(tx)
	return &clone
}

// LowStockThreshold 低库存阈值
func (s *InventoryService) LowStockThreshold() int {
	return s.lowStockThreshold
}

// Reserve 原子扣减库存并返回扣减后的库存
func (s *InventoryService) Reserve(productID uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, newValidationError("quantity", "must be greater than zero")
	}
	if productID == 0 {
		return 0, ErrProductNotFound
	}
	stock, ok, err := s.productRepo.ReserveStock(productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("reserve stock: %w", err)
	}
	if !ok {
		metrics.ObserveReservation(false)
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return 0, fmt.Errorf("load product: %w", err)
		}
		if product == nil {
			return 0, ErrProductNotFound
		}
		return 0, &OutOfStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Available: product.Stock,
			Requested: quantity,
		}
	}
	metrics.ObserveReservation(true)
	return stock, nil
}

// Release 回补库存，不做上限校验
func (s *InventoryService) Release(productID uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, newValidationError("quantity", "must be greater than zero")
	}
	if productID == 0 {
		return 0, ErrProductNotFound
	}
	stock, ok, err := s.productRepo.ReleaseStock(productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("release stock: %w", err)
	}
	if !ok {
		return 0, ErrProductNotFound
	}
	metrics.AddReleasedUnits(quantity)
	return stock, nil
}

// SetStock 后台直接写入库存值
func (s *InventoryService) SetStock(productID uint, stock int) error {
	if stock < 0 {
		return newValidationError("stock", "must not be negative")
	}
	if productID == 0 {
		return ErrProductNotFound
	}
	affected, err := s.productRepo.SetStock(productID, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	logger.Infow("inventory_stock_set", "product_id", productID, "stock", stock)
	return nil
}

// CrossedLowStock 判断一次扣减是否让库存从阈值之上跌到阈值及以下
func (s *InventoryService) CrossedLowStock(newStock, reserved int) bool {
	before := newStock + reserved
	return before > s.lowStockThreshold && newStock <= s.lowStockThreshold
}

// EnqueueLowStockAlerts 事务提交后推送低库存告警，失败只记录日志
func (s *InventoryService) EnqueueLowStockAlerts(alerts []LowStockAlert) {
	for _, alert := range alerts {
		logger.Warnw("inventory_low_stock",
			"product_id", alert.ProductID,
			"name", alert.Name,
			"stock", alert.Stock,
			"threshold", s.lowStockThreshold,
		)
		if s.queueClient == nil {
			continue
		}
		if err := s.queueClient.EnqueueLowStock(queue.LowStockPayload{
			ProductID: alert.ProductID,
			Name:      alert.Name,
			Stock:     alert.Stock,
			Threshold: s.lowStockThreshold,
		}, lowStockAlertWindow); err != nil {
			logger.Errorw("inventory_enqueue_low_stock_failed",
				"product_id", alert.ProductID,
				"error", err,
			)
		}
	}
}
