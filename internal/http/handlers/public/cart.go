package public

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartAddRequest 加入购物车请求
type CartAddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartBatchRequest 批量更新请求
type CartBatchRequest struct {
	Items []service.CartQuantityUpdate `json:"items" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.ListForUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在则累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.CartService.AddOrIncrement(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.cart_item_added"), gin.H{
		"id":         item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

// UpdateCartItem 修改单行数量，数量小于 1 时删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.SetQuantity(uid, itemID, *req.Quantity); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.cart_updated"), gin.H{"updated": true})
}

// BatchUpdateCart 批量更新购物车，成功行生效，失败行逐条返回
func (h *Handler) BatchUpdateCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CartService.BatchUpdate(uid, req.Items)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	key := "message.cart_updated"
	if len(result.Failed) > 0 {
		key = "message.cart_partially_updated"
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), result)
}

// DeleteCartItem 删除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	if err := h.CartService.Remove(uid, itemID); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetCartCount 购物车行数
func (h *Handler) GetCartCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	count, err := h.CartService.Count(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"count": count})
}
