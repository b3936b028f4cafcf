package models

import (
	"time"
)

// User 用户表（顾客与后台管理员共用，IsAdmin 区分）
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                         // 主键
	Name         string     `gorm:"type:varchar(120);not null" json:"name"`       // 姓名
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`            // 邮箱
	PasswordHash string     `gorm:"not null" json:"-"`                            // 密码哈希（不返回给前端）
	IsBanned     bool       `gorm:"not null;default:false" json:"is_banned"`      // 是否封禁
	IsAdmin      bool       `gorm:"not null;default:false;index" json:"is_admin"` // 是否管理员
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                  // Token 版本（封禁、改密后递增）
	LastLoginAt  *time.Time `json:"last_login_at"`                                // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt    time.Time  `gorm:"index" json:"updated_at"`                      // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
