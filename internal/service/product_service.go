package service

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultLatestProductsLimit = 8

// FileRemover 删除上传文件
type FileRemover interface {
	RemoveFile(publicPath string) error
}

// ProductService 商品业务服务
type ProductService struct {
	repo        repository.ProductRepository
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	inventory   *InventoryService
	files       FileRemover
	latestLimit int
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, cartRepo repository.CartRepository, orderRepo repository.OrderRepository, inventory *InventoryService, files FileRemover, latestLimit int) *ProductService {
	if latestLimit <= 0 {
		latestLimit = defaultLatestProductsLimit
	}
	return &ProductService{
		repo:        repo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		inventory:   inventory,
		files:       files,
		latestLimit: latestLimit,
	}
}

// ProductInput 创建/更新商品输入，Images 第一张为主图；更新时 Images 为 nil 表示保留原图
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       *int
	Category    string
	Images      []string
}

// ListPublic 前台商品列表，只含有货商品，按名称排序
func (s *ProductService) ListPublic(keyword, category string, page, pageSize int) ([]models.Product, int64, error) {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	return s.repo.List(repository.ProductListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(keyword),
		Category:    strings.TrimSpace(category),
		OnlyInStock: true,
		OrderBy:     "name",
	})
}

// Latest 首页最新上架的有货商品
func (s *ProductService) Latest() ([]models.Product, error) {
	products, _, err := s.repo.List(repository.ProductListFilter{
		Page:        1,
		PageSize:    s.latestLimit,
		OnlyInStock: true,
		OrderBy:     "newest",
	})
	return products, err
}

// GetPublic 商品详情
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	return s.GetAdmin(id)
}

// Categories 非空分类列表
func (s *ProductService) Categories() ([]string, error) {
	return s.repo.ListCategories()
}

// ListAdmin 后台商品列表，包含无货商品
func (s *ProductService) ListAdmin(keyword, category string, page, pageSize int) ([]models.Product, int64, error) {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(keyword),
		Category: strings.TrimSpace(category),
		OrderBy:  "newest",
	})
}

// GetAdmin 后台商品详情
func (s *ProductService) GetAdmin(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		PriceAmount: models.NewMoneyFromDecimal(input.Price),
		Category:    strings.TrimSpace(input.Category),
		Images:      buildProductImages(input.Images),
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "name", product.Name, "stock", product.Stock)
	return s.GetAdmin(product.ID)
}

// Update 更新商品，库存经库存台账写入，被替换的图片文件在提交后删除
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if _, err := s.GetAdmin(id); err != nil {
		return nil, err
	}

	var removed []string
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product := &models.Product{
			ID:          id,
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			PriceAmount: models.NewMoneyFromDecimal(input.Price),
			Category:    strings.TrimSpace(input.Category),
		}
		if err := repo.Update(product); err != nil {
			return err
		}
		if input.Stock != nil {
			if err := s.inventory.WithTx(tx).SetStock(id, *input.Stock); err != nil {
				return err
			}
		}
		if input.Images == nil {
			return nil
		}
		paths, err := repo.ReplaceImages(id, buildProductImages(input.Images))
		if err != nil {
			return err
		}
		removed = paths
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.removeFiles(id, removed)
	return s.GetAdmin(id)
}

// Delete 删除商品：事务内锁定商品行后检查订单引用，被引用时拒绝，否则连同购物车项与图片一起删除
func (s *ProductService) Delete(id uint) error {
	if id == 0 {
		return ErrProductNotFound
	}

	var paths []string
	var affectedUsers []uint
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.LockByID(id)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}
		if !found {
			return ErrProductNotFound
		}
		refs, err := s.orderRepo.WithTx(tx).CountItemsByProduct(id)
		if err != nil {
			return fmt.Errorf("count order items: %w", err)
		}
		if refs > 0 {
			return ErrProductInUse
		}

		cartRepo := s.cartRepo.WithTx(tx)
		userIDs, err := cartRepo.ListUserIDsByProduct(id)
		if err != nil {
			return err
		}
		if err := cartRepo.DeleteByProduct(id); err != nil {
			return err
		}
		removed, err := repo.Delete(id)
		if err != nil {
			return err
		}
		paths = removed
		affectedUsers = userIDs
		return nil
	})
	if err != nil {
		return err
	}
	for _, userID := range affectedUsers {
		invalidateCartCount(userID)
	}
	s.removeFiles(id, paths)
	logger.Infow("product_deleted", "product_id", id, "cart_lines_users", len(affectedUsers), "images", len(paths))
	return nil
}

// SetStock 后台库存设置
func (s *ProductService) SetStock(id uint, stock int) (*models.Product, error) {
	if err := s.inventory.SetStock(id, stock); err != nil {
		return nil, err
	}
	return s.GetAdmin(id)
}

func (s *ProductService) removeFiles(productID uint, paths []string) {
	if s.files == nil {
		return
	}
	for _, path := range paths {
		if err := s.files.RemoveFile(path); err != nil {
			logger.Warnw("product_image_remove_failed", "product_id", productID, "path", path, "error", err)
		}
	}
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return newValidationError("name", "is required")
	}
	if !input.Price.Round(2).IsPositive() {
		return newValidationError("price", "must be greater than zero")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return newValidationError("stock", "must not be negative")
	}
	return nil
}

func buildProductImages(paths []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, raw := range paths {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		images = append(images, models.ProductImage{
			Path:      path,
			IsPrimary: len(images) == 0,
			SortOrder: len(images),
		})
	}
	return images
}
