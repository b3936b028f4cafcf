package admin

import (
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/编辑请求
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Images:      r.Images,
	}
}

// StockRequest 库存设置请求
type StockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, 0)
	keyword := strings.TrimSpace(c.Query("keyword"))
	category := strings.TrimSpace(c.Query("category"))

	products, total, err := h.ProductService.ListAdmin(keyword, category, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	product, err := h.ProductService.GetAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 编辑商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品，已有订单时拒绝
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "error.product_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// SetProductStock 直接设置库存
func (h *Handler) SetProductStock(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.SetStock(id, *req.Stock)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "error.stock_update_failed")
		return
	}
	response.Success(c, product)
}

// UploadFile 图片上传
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.file_missing", nil)
		return
	}
	scene := c.DefaultPostForm("scene", "products")

	url, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondWithMappedError(c, err, adminUploadErrorRules, response.CodeInternal, "error.upload_failed")
		return
	}
	response.Success(c, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
