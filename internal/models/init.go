package models

import (
	"strings"

	"github.com/storefront-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const defaultAdminPassword = "admin123"

// InitDefaultAdmin 初始化默认管理员账号，已存在管理员时只保证其未被封禁
func InitDefaultAdmin(name, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@storefront.local"
	}

	var existing User
	if err := DB.Where("email = ?", email).Limit(1).Find(&existing).Error; err != nil {
		return nil, err
	}
	if existing.ID != 0 {
		if !existing.IsAdmin || existing.IsBanned {
			if err := DB.Model(&existing).Updates(map[string]interface{}{"is_admin": true, "is_banned": false}).Error; err != nil {
				logger.Warnw("ensure_default_admin_failed", "email", email, "error", err)
			}
		}
		return &existing, nil
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return nil, err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return &admin, nil
}
