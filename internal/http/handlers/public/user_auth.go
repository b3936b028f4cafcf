package public

import (
	"time"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userAuthPayload(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user":       userProfile(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}

func userProfile(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"is_admin":      user.IsAdmin,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	}
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Register(service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.register_failed")
		return
	}
	response.Success(c, userAuthPayload(user, token, expiresAt))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	response.Success(c, userAuthPayload(user, token, expiresAt))
}

// GetMe 当前用户资料
func (h *Handler) GetMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.user_fetch_failed")
		return
	}
	response.Success(c, userProfile(user))
}
