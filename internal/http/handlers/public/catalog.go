package public

import (
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProducts 商品列表（仅有库存商品，支持关键字与分类筛选）
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, 0)
	keyword := strings.TrimSpace(c.Query("keyword"))
	category := strings.TrimSpace(c.Query("category"))

	products, total, err := h.ProductService.ListPublic(keyword, category, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetLatestProducts 首页最新商品
func (h *Handler) GetLatestProducts(c *gin.Context) {
	products, err := h.ProductService.Latest()
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	product, err := h.ProductService.GetPublic(id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// GetCategories 商品分类
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}
