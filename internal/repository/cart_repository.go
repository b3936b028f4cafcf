package repository

import (
	"errors"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByID(id uint) (*models.CartItem, error)
	GetByUserAndProduct(userID, productID uint) (*models.CartItem, error)
	ListByUser(userID uint) ([]models.CartItem, error)
	CountByUser(userID uint) (int64, error)
	AddQuantity(item *models.CartItem, limit int) (bool, error)
	UpdateQuantity(id uint, quantity int) error
	Delete(id uint) error
	ClearByUser(userID uint) error
	DeleteByProduct(productID uint) error
	ListUserIDsByProduct(productID uint) ([]uint, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByID 根据 ID 获取购物车项
func (r *GormCartRepository) GetByID(id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByUserAndProduct 获取用户某商品的购物车项
func (r *GormCartRepository) GetByUserAndProduct(userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser 获取用户购物车项（附带当前商品与图片）
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_primary DESC, sort_order ASC, id ASC")
	}).Where("user_id = ?", userID).Order("updated_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByUser 统计购物车行数
func (r *GormCartRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddQuantity 以单条 INSERT ... ON CONFLICT 写入购物车行：(user_id, product_id) 不存在时插入，
// 已存在时累加数量；插入数量或累加结果超过 limit 时不写入并返回 false
func (r *GormCartRepository) AddQuantity(item *models.CartItem, limit int) (bool, error) {
	if item == nil || item.Quantity <= 0 {
		return false, errors.New("invalid cart quantity")
	}
	if item.Quantity > limit {
		return false, nil
	}
	now := time.Now()
	item.ID = 0
	item.CreatedAt = now
	item.UpdatedAt = now
	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("cart_items.quantity + excluded.quantity <= ?", limit),
		}},
	}).Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now(),
	}).Error
}

// Delete 删除购物车项
func (r *GormCartRepository) Delete(id uint) error {
	return r.db.Delete(&models.CartItem{}, id).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// DeleteByProduct 删除引用某商品的全部购物车项
func (r *GormCartRepository) DeleteByProduct(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&models.CartItem{}).Error
}

// ListUserIDsByProduct 列出购物车中含有该商品的用户
func (r *GormCartRepository) ListUserIDsByProduct(productID uint) ([]uint, error) {
	var userIDs []uint
	if err := r.db.Model(&models.CartItem{}).Where("product_id = ?", productID).Distinct("user_id").Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}
