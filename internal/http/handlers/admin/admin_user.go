package admin

import (
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest 编辑用户请求
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	IsBanned bool   `json:"is_banned"`
	IsAdmin  bool   `json:"is_admin"`
	Password string `json:"password"`
}

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, h.Config.Store.AdminOrderPageSize)
	users, total, err := h.UserService.List(service.AdminUserFilter{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetAdminUser 用户详情
func (h *Handler) GetAdminUser(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	user, err := h.UserService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "error.user_fetch_failed")
		return
	}
	response.Success(c, user)
}

// UpdateAdminUser 编辑用户资料、封禁与管理员标记
func (h *Handler) UpdateAdminUser(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.Update(id, service.AdminUserUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		IsBanned: req.IsBanned,
		IsAdmin:  req.IsAdmin,
		Password: req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "error.user_update_failed")
		return
	}
	response.Success(c, user)
}
