package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses 全部合法订单状态，顺序即前台展示顺序
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// 订单号前缀
const OrderNoPrefix = "SF"

// 订单事件类型
const (
	OrderEventCreated       = "order.created"
	OrderEventCancelled     = "order.cancelled"
	OrderEventStatusChanged = "order.status_changed"
)

// 授权相关常量
const (
	RoleAdmin          = "admin"
	AuthzSubjectPrefix = "user:"
	AuthzRolePrefix    = "role:"
)

// gin 上下文键
const (
	ContextKeyUserID     = "user_id"
	ContextKeyUserEmail  = "user_email"
	ContextKeyAdminID    = "admin_id"
	ContextKeyAdminEmail = "admin_email"
	ContextKeyRequestID  = "request_id"
)

// 上传场景
const (
	UploadSceneProduct = "product"
)

// 队列相关常量
const (
	QueueDefault          = "default"
	TaskOrderEvent        = "order:event"
	TaskInventoryLowStock = "inventory:low_stock"
)

// 默认分页
const (
	DefaultPageSize      = 20
	DefaultAdminPageSize = 10
)
