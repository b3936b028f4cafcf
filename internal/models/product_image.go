package models

import (
	"time"
)

// ProductImage 商品图片
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	ProductID uint      `gorm:"index;not null" json:"product_id"`         // 商品ID
	Path      string    `gorm:"type:varchar(255);not null" json:"path"`   // 相对上传目录的路径
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"` // 是否主图
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`     // 排序
	CreatedAt time.Time `json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
