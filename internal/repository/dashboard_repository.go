package repository

import (
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview() (DashboardOverviewRow, error)
	GetStockStats(lowStockThreshold int) (DashboardStockStatsRow, error)
	GetOrderStatusCounts() ([]DashboardStatusCountRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	ProductsTotal int64
	UsersTotal    int64
	OrdersTotal   int64
	PendingOrders int64
	SalesTotal    float64
}

// DashboardStockStatsRow 库存统计
type DashboardStockStatsRow struct {
	OutOfStockProducts int64
	LowStockProducts   int64
	UnitsInStock       int64
}

// DashboardStatusCountRow 订单状态分布
type DashboardStatusCountRow struct {
	Status string
	Count  int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计，销售额不含已取消订单
func (r *GormDashboardRepository) GetOverview() (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.Product{}).Count(&result.ProductsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.User{}).Count(&result.UsersTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("status = ?", constants.OrderStatusPending).
		Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.SalesTotal).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetStockStats 获取库存总览统计
func (r *GormDashboardRepository) GetStockStats(lowStockThreshold int) (DashboardStockStatsRow, error) {
	result := DashboardStockStatsRow{}
	if err := r.db.Model(&models.Product{}).Where("stock <= 0").Count(&result.OutOfStockProducts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).
		Where("stock > 0 AND stock < ?", lowStockThreshold).
		Count(&result.LowStockProducts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&result.UnitsInStock).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderStatusCounts 订单状态分布
func (r *GormDashboardRepository) GetOrderStatusCounts() ([]DashboardStatusCountRow, error) {
	var rows []DashboardStatusCountRow
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
