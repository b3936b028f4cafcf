package admin

import (
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest 订单状态设置请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAdminOrders 订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, h.Config.Store.AdminOrderPageSize)
	filter := service.AdminOrderFilter{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}
	orders, total, err := h.OrderService.AdminList(filter)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	order, err := h.OrderService.AdminGet(id)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 设置订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.AdminSetStatus(id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
