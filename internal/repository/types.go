package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page        int
	PageSize    int
	Keyword     string // 名称或描述子串
	Category    string
	OnlyInStock bool
	OrderBy     string // name / newest
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Keyword  string // 订单号、顾客姓名或邮箱
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Banned   *bool
	Admin    *bool
}
