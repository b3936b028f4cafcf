package admin

import (
	"time"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// GetAdminMe 当前管理员
func (h *Handler) GetAdminMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	user, err := h.UserService.Get(adminID)
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "error.user_fetch_failed")
		return
	}
	roles, err := h.AuthzService.GetUserRoles(user.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"roles": roles,
	})
}
