package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品与库存数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListCategories() ([]string, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	ReplaceImages(productID uint, images []models.ProductImage) ([]string, error)
	Delete(id uint) ([]string, error)
	LockByID(id uint) (bool, error)
	ReserveStock(productID uint, quantity int) (int, bool, error)
	ReleaseStock(productID uint, quantity int) (int, bool, error)
	SetStock(productID uint, stock int) (int64, error)
	ListLowStock(threshold int, limit int) ([]models.Product, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC, sort_order ASC, id ASC")
}

// List 商品列表，关键字对名称与描述做子串匹配
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyInStock {
		query = query.Where("stock > 0")
	}
	query = whereKeyword(query, filter.Keyword, "name", "description")
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.OrderBy {
	case "newest":
		query = query.Order("created_at DESC, id DESC")
	default:
		query = query.Order("name ASC, id ASC")
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := query.Preload("Images", preloadImages).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListCategories 列出非空分类
func (r *GormProductRepository) ListCategories() ([]string, error) {
	var categories []string
	if err := r.db.Model(&models.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 获取商品（含图片，主图在前）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Images", preloadImages).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品（关联图片一并写入）
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品基础字段，库存与图片分别由 SetStock、ReplaceImages 维护
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":         product.Name,
		"description":  product.Description,
		"price_amount": product.PriceAmount,
		"category":     product.Category,
		"updated_at":   time.Now(),
	}).Error
}

// ReplaceImages 替换商品图片，返回被移除的图片路径
func (r *GormProductRepository) ReplaceImages(productID uint, images []models.ProductImage) ([]string, error) {
	var oldPaths []string
	if err := r.db.Model(&models.ProductImage{}).Where("product_id = ?", productID).Pluck("path", &oldPaths).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return nil, err
	}
	for i := range images {
		images[i].ID = 0
		images[i].ProductID = productID
	}
	if len(images) > 0 {
		if err := r.db.Create(&images).Error; err != nil {
			return nil, err
		}
	}

	kept := make(map[string]struct{}, len(images))
	for _, img := range images {
		kept[img.Path] = struct{}{}
	}
	removed := make([]string, 0, len(oldPaths))
	for _, path := range oldPaths {
		if _, ok := kept[path]; !ok {
			removed = append(removed, path)
		}
	}
	return removed, nil
}

// Delete 删除商品与图片记录，返回需要清理的图片路径
func (r *GormProductRepository) Delete(id uint) ([]string, error) {
	var paths []string
	if err := r.db.Model(&models.ProductImage{}).Where("product_id = ?", id).Pluck("path", &paths).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Product{}, id).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// ReserveStock 条件扣减库存（比较并扣减），ok=false 表示库存不足或商品不存在；stock 取自 UPDATE ... RETURNING
func (r *GormProductRepository) ReserveStock(productID uint, quantity int) (int, bool, error) {
	if productID == 0 || quantity <= 0 {
		return 0, false, errors.New("invalid stock reserve params")
	}
	return r.adjustStock(r.db.Where("id = ? AND stock >= ?", productID, quantity), gorm.Expr("stock - ?", quantity))
}

// ReleaseStock 回补库存，ok=false 表示商品不存在
func (r *GormProductRepository) ReleaseStock(productID uint, quantity int) (int, bool, error) {
	if productID == 0 || quantity <= 0 {
		return 0, false, errors.New("invalid stock release params")
	}
	return r.adjustStock(r.db.Where("id = ?", productID), gorm.Expr("stock + ?", quantity))
}

func (r *GormProductRepository) adjustStock(query *gorm.DB, expr clause.Expr) (int, bool, error) {
	var row models.Product
	result := query.Model(&row).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		UpdateColumn("stock", expr)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return row.Stock, true, nil
}

// LockByID 事务内对商品行加排他锁，found=false 表示商品不存在
func (r *GormProductRepository) LockByID(id uint) (bool, error) {
	var ids []uint
	if err := r.db.Model(&models.Product{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// SetStock 后台直接设置库存
func (r *GormProductRepository) SetStock(productID uint, stock int) (int64, error) {
	if productID == 0 || stock < 0 {
		return 0, errors.New("invalid stock set params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", stock)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListLowStock 库存告急商品（0 < stock < threshold）
func (r *GormProductRepository) ListLowStock(threshold int, limit int) ([]models.Product, error) {
	query := r.db.Where("stock > 0 AND stock < ?", threshold).Order("stock ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
