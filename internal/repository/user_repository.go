package repository

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	CountByEmailExcept(email string, excludeID uint) (int64, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	ListAdminIDs() ([]uint, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// CountByEmailExcept 统计除指定用户外使用该邮箱的账号数
func (r *GormUserRepository) CountByEmailExcept(email string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	query = whereKeyword(query, filter.Keyword, "email", "name")
	if filter.Banned != nil {
		query = query.Where("is_banned = ?", *filter.Banned)
	}
	if filter.Admin != nil {
		query = query.Where("is_admin = ?", *filter.Admin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.User
	if err := query.Order("name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListAdminIDs 返回全部未封禁管理员的 ID
func (r *GormUserRepository) ListAdminIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.User{}).
		Where("is_admin = ? AND is_banned = ?", true, false).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
