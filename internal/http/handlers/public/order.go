package public

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结账请求
type CheckoutRequest struct {
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address"`
}

// Checkout 购物车结账
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.Checkout(service.CheckoutInput{
		UserID:          uid,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.order_created"), order)
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c, 0)
	orders, total, err := h.OrderService.ListForUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	order, err := h.OrderService.GetForUser(uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消待处理订单并回补库存
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	order, err := h.OrderService.Cancel(uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.order_cancelled"), order)
}
