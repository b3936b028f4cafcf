package models

import (
	"time"
)

// Product 商品表
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                // 主键
	Name        string    `gorm:"type:varchar(200);not null;index" json:"name"`                        // 名称
	Description string    `gorm:"type:text;not null;default:''" json:"description"`                    // 描述
	PriceAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                  // 单价
	Stock       int       `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"` // 库存
	Category    string    `gorm:"type:varchar(100);index;not null;default:''" json:"category"`         // 分类
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                                             // 更新时间

	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"` // 商品图片
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 返回主图路径，没有主图时返回第一张
func (p *Product) PrimaryImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.Path
		}
	}
	return p.Images[0].Path
}
