package models

import (
	"time"
)

// Order 订单表，创建后仅状态可变
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string     `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID          uint       `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Status          string     `gorm:"index;not null" json:"status"`                              // 订单状态
	TotalAmount     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 下单时金额快照
	PaymentMethod   string     `gorm:"type:varchar(64);not null" json:"payment_method"`           // 支付方式（文本标签）
	DeliveryAddress string     `gorm:"type:text;not null" json:"delivery_address"`                // 收货地址
	CanceledAt      *time.Time `gorm:"index" json:"canceled_at"`                                  // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                                   // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
