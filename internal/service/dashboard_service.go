package service

import (
	"context"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey      = "dashboard:overview"
	dashboardCacheTTL      = 30 * time.Second
	dashboardRecentOrders  = 5
	dashboardLowStockLimit = 20
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo        repository.DashboardRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	threshold   int
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, lowStockThreshold int) *DashboardService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = defaultLowStockThreshold
	}
	return &DashboardService{
		repo:        repo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		threshold:   lowStockThreshold,
	}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	ProductsTotal      int64                  `json:"products_total"`
	UsersTotal         int64                  `json:"users_total"`
	OrdersTotal        int64                  `json:"orders_total"`
	PendingOrders      int64                  `json:"pending_orders"`
	SalesTotal         models.Money           `json:"sales_total"`
	OutOfStockProducts int64                  `json:"out_of_stock_products"`
	LowStockProducts   int64                  `json:"low_stock_products_count"`
	UnitsInStock       int64                  `json:"units_in_stock"`
	LowStockThreshold  int                    `json:"low_stock_threshold"`
	StatusCounts       map[string]int64       `json:"status_counts"`
	RecentOrders       []DashboardRecentOrder `json:"recent_orders"`
	LowStock           []DashboardLowStock    `json:"low_stock"`
}

// DashboardRecentOrder 最近订单
type DashboardRecentOrder struct {
	OrderSummary
	CustomerName string `json:"customer_name"`
}

// DashboardLowStock 库存告急商品
type DashboardLowStock struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// Overview 获取仪表盘总览，forceRefresh 跳过缓存
func (s *DashboardService) Overview(forceRefresh bool) (*DashboardOverview, error) {
	ctx := context.Background()
	if !forceRefresh {
		var cached DashboardOverview
		hit, err := cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			logger.Warnw("dashboard_cache_read_failed", "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	overviewRow, err := s.repo.GetOverview()
	if err != nil {
		return nil, err
	}
	stockRow, err := s.repo.GetStockStats(s.threshold)
	if err != nil {
		return nil, err
	}
	statusRows, err := s.repo.GetOrderStatusCounts()
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.ListRecent(dashboardRecentOrders)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.ListLowStock(s.threshold, dashboardLowStockLimit)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		ProductsTotal:      overviewRow.ProductsTotal,
		UsersTotal:         overviewRow.UsersTotal,
		OrdersTotal:        overviewRow.OrdersTotal,
		PendingOrders:      overviewRow.PendingOrders,
		SalesTotal:         models.NewMoneyFromDecimal(decimal.NewFromFloat(overviewRow.SalesTotal)),
		OutOfStockProducts: stockRow.OutOfStockProducts,
		LowStockProducts:   stockRow.LowStockProducts,
		UnitsInStock:       stockRow.UnitsInStock,
		LowStockThreshold:  s.threshold,
		StatusCounts:       make(map[string]int64, len(statusRows)),
		RecentOrders:       make([]DashboardRecentOrder, 0, len(recent)),
		LowStock:           make([]DashboardLowStock, 0, len(lowStock)),
	}
	for _, row := range statusRows {
		overview.StatusCounts[row.Status] = row.Count
	}
	for i := range recent {
		item := DashboardRecentOrder{OrderSummary: summarizeOrder(&recent[i])}
		if recent[i].User != nil {
			item.CustomerName = recent[i].User.Name
		}
		overview.RecentOrders = append(overview.RecentOrders, item)
	}
	for _, product := range lowStock {
		overview.LowStock = append(overview.LowStock, DashboardLowStock{
			ProductID: product.ID,
			Name:      product.Name,
			Stock:     product.Stock,
		})
	}

	_ = cache.SetJSON(ctx, dashboardCacheKey, overview, dashboardCacheTTL)
	return overview, nil
}
