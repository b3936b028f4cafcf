package service

import (
	"context"
	"strings"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// AdminRoleSyncer 同步 is_admin 标记到 RBAC 角色
type AdminRoleSyncer interface {
	SyncAdminFlag(userID uint, isAdmin bool) error
}

// UserService 后台用户管理服务
type UserService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	roles    AdminRoleSyncer
}

// NewUserService 创建用户管理服务
func NewUserService(cfg *config.Config, userRepo repository.UserRepository, roles AdminRoleSyncer) *UserService {
	return &UserService{cfg: cfg, userRepo: userRepo, roles: roles}
}

// AdminUserFilter 后台用户筛选
type AdminUserFilter struct {
	Keyword  string
	Page     int
	PageSize int
}

// AdminUserUpdateInput 后台编辑用户输入，Password 为空表示不修改
type AdminUserUpdateInput struct {
	Name     string
	Email    string
	IsBanned bool
	IsAdmin  bool
	Password string
}

// List 用户列表，按姓名排序，关键字匹配姓名或邮箱
func (s *UserService) List(filter AdminUserFilter) ([]models.User, int64, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultAdminPageSize
	}
	return s.userRepo.List(repository.UserListFilter{
		Page:     filter.Page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(filter.Keyword),
	})
}

// Get 获取用户详情
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update 编辑用户资料、封禁与管理员标记
func (s *UserService) Update(id uint, input AdminUserUpdateInput) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, newValidationError("name", "name is required")
	}
	if email == "" {
		return nil, newValidationError("email", "email is required")
	}
	if email != user.Email {
		count, err := s.userRepo.CountByEmailExcept(email, user.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
	}

	revoke := false
	if input.Password != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
			return nil, err
		}
		hashed, err := HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
		revoke = true
	}
	if input.IsBanned && !user.IsBanned {
		revoke = true
	}
	adminChanged := user.IsAdmin != input.IsAdmin

	user.Name = name
	user.Email = email
	user.IsBanned = input.IsBanned
	user.IsAdmin = input.IsAdmin
	if revoke {
		user.TokenVersion++
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if adminChanged && s.roles != nil {
		if err := s.roles.SyncAdminFlag(user.ID, user.IsAdmin); err != nil {
			logger.Errorw("user_admin_role_sync_failed", "user_id", user.ID, "is_admin", user.IsAdmin, "error", err)
		}
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("admin_user_updated",
		"user_id", user.ID,
		"is_banned", user.IsBanned,
		"is_admin", user.IsAdmin,
		"token_revoked", revoke,
	)
	return user, nil
}
