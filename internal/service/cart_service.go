package service

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 批量更新失败原因
const (
	CartUpdateReasonNotFound     = "not_found"
	CartUpdateReasonExceedsStock = "exceeds_stock"
)

// CartLine 购物车行视图（含实时价格与库存）
type CartLine struct {
	ID        uint         `json:"id"`
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Stock     int          `json:"stock"`
	Image     string       `json:"image"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"line_total"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CartView 购物车视图
type CartView struct {
	Items         []CartLine   `json:"items"`
	Total         models.Money `json:"total"`
	ItemCount     int          `json:"item_count"`
	TotalQuantity int          `json:"total_quantity"`
}

// CartQuantityUpdate 批量更新的单行输入
type CartQuantityUpdate struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// CartUpdateFailure 批量更新中失败的行
type CartUpdateFailure struct {
	ItemID      uint   `json:"item_id"`
	ProductID   uint   `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
	Reason      string `json:"reason"`
}

// BatchUpdateResult 批量更新结果，成功的行保留，失败的逐行返回
type BatchUpdateResult struct {
	Updated []uint              `json:"updated"`
	Removed []uint              `json:"removed"`
	Failed  []CartUpdateFailure `json:"failed"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	countTTL    time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, countCacheSeconds int) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		countTTL:    time.Duration(countCacheSeconds) * time.Second,
	}
}

// AddOrIncrement 加入购物车，已有同商品行时累加数量；只校验库存不预占
func (s *CartService) AddOrIncrement(userID, productID uint, quantity int) (*models.CartItem, error) {
	if userID == 0 {
		return nil, ErrInvalidCredentials
	}
	if quantity <= 0 {
		return nil, newValidationError("quantity", "must be greater than zero")
	}

	var item *models.CartItem
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		product, err := s.productRepo.WithTx(tx).GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}

		applied, err := cartRepo.AddQuantity(&models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}, product.Stock)
		if err != nil {
			return err
		}
		existing, err := cartRepo.GetByUserAndProduct(userID, productID)
		if err != nil {
			return err
		}
		if !applied {
			candidate := quantity
			if existing != nil {
				candidate += existing.Quantity
			}
			return outOfStock(product, candidate)
		}
		if existing == nil {
			return ErrCartItemNotFound
		}
		item = existing
		item.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCount(userID)
	return item, nil
}

// SetQuantity 设置购物车行数量，小于 1 时删除该行
func (s *CartService) SetQuantity(userID, itemID uint, quantity int) error {
	item, err := s.loadOwnedItem(userID, itemID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		if err := s.cartRepo.Delete(item.ID); err != nil {
			return err
		}
		s.invalidateCount(userID)
		return nil
	}
	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if quantity > product.Stock {
		return outOfStock(product, quantity)
	}
	return s.cartRepo.UpdateQuantity(item.ID, quantity)
}

// BatchUpdate 批量设置数量，单行失败不回滚其它行
func (s *CartService) BatchUpdate(userID uint, updates []CartQuantityUpdate) (*BatchUpdateResult, error) {
	result := &BatchUpdateResult{
		Updated: []uint{},
		Removed: []uint{},
		Failed:  []CartUpdateFailure{},
	}
	for _, update := range updates {
		err := s.SetQuantity(userID, update.ItemID, update.Quantity)
		switch {
		case err == nil && update.Quantity < 1:
			result.Removed = append(result.Removed, update.ItemID)
		case err == nil:
			result.Updated = append(result.Updated, update.ItemID)
		default:
			failure, ok := cartUpdateFailure(update, err)
			if !ok {
				return nil, err
			}
			result.Failed = append(result.Failed, failure)
		}
	}
	return result, nil
}

func cartUpdateFailure(update CartQuantityUpdate, err error) (CartUpdateFailure, bool) {
	failure := CartUpdateFailure{ItemID: update.ItemID, Requested: update.Quantity}
	if stockErr, ok := asOutOfStock(err); ok {
		failure.ProductID = stockErr.ProductID
		failure.ProductName = stockErr.Name
		failure.Available = stockErr.Available
		failure.Reason = CartUpdateReasonExceedsStock
		return failure, true
	}
	if isNotFound(err) {
		failure.Reason = CartUpdateReasonNotFound
		return failure, true
	}
	return failure, false
}

// Remove 删除购物车行
func (s *CartService) Remove(userID, itemID uint) error {
	item, err := s.loadOwnedItem(userID, itemID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Delete(item.ID); err != nil {
		return err
	}
	s.invalidateCount(userID)
	return nil
}

// ListForUser 购物车视图，价格与库存为实时值
func (s *CartService) ListForUser(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidCredentials
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: make([]CartLine, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil || item.Product.ID == 0 {
			continue
		}
		lineTotal := item.Product.PriceAmount.Mul(item.Quantity)
		view.Items = append(view.Items, CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.PriceAmount,
			Stock:     item.Product.Stock,
			Image:     item.Product.PrimaryImage(),
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			UpdatedAt: item.UpdatedAt,
		})
		total = total.Add(lineTotal.Decimal)
		view.TotalQuantity += item.Quantity
	}
	view.Total = models.NewMoneyFromDecimal(total)
	view.ItemCount = len(view.Items)
	return view, nil
}

// Count 购物车行数，优先读缓存
func (s *CartService) Count(userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrInvalidCredentials
	}
	ctx := context.Background()
	if count, ok, err := cache.GetCartCount(ctx, userID); err == nil && ok {
		return count, nil
	}
	count, err := s.cartRepo.CountByUser(userID)
	if err != nil {
		return 0, err
	}
	if err := cache.SetCartCount(ctx, userID, count, s.countTTL); err != nil {
		logger.Warnw("cart_count_cache_set_failed", "user_id", userID, "error", err)
	}
	return count, nil
}

func (s *CartService) loadOwnedItem(userID, itemID uint) (*models.CartItem, error) {
	if userID == 0 {
		return nil, ErrInvalidCredentials
	}
	item, err := s.cartRepo.GetByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("load cart item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

func (s *CartService) invalidateCount(userID uint) {
	invalidateCartCount(userID)
}

func invalidateCartCount(userID uint) {
	if err := cache.DelCartCount(context.Background(), userID); err != nil {
		logger.Warnw("cart_count_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}

func outOfStock(product *models.Product, requested int) *OutOfStockError {
	return &OutOfStockError{
		ProductID: product.ID,
		Name:      product.Name,
		Available: product.Stock,
		Requested: requested,
	}
}
