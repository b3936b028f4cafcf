package main

import (
	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
)

type seedProduct struct {
	Name        string
	Description string
	Category    string
	Price       string
	Stock       int
}

var demoProducts = []seedProduct{
	{Name: "Mechanical Keyboard", Description: "87-key hot-swappable keyboard with brown switches.", Category: "Electronics", Price: "349.90", Stock: 25},
	{Name: "Wireless Mouse", Description: "Ergonomic 2.4G mouse with silent clicks.", Category: "Electronics", Price: "129.90", Stock: 40},
	{Name: "USB-C Hub", Description: "7-in-1 hub with HDMI, SD and 100W passthrough.", Category: "Accessories", Price: "199.00", Stock: 18},
	{Name: "Laptop Stand", Description: "Aluminium stand with adjustable height.", Category: "Accessories", Price: "159.50", Stock: 3},
	{Name: "Ceramic Mug", Description: "350ml matte ceramic mug.", Category: "Lifestyle", Price: "39.90", Stock: 60},
	{Name: "Desk Lamp", Description: "LED lamp with three colour temperatures.", Category: "Lifestyle", Price: "119.00", Stock: 0},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	// 连接数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	defer func() { _ = models.CloseDB() }()

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 管理员账号与角色
	admin, err := models.InitDefaultAdmin(cfg.SeedAdmin.Name, cfg.SeedAdmin.Email, cfg.SeedAdmin.Password)
	if err != nil {
		stdLog.Fatalf("Failed to seed admin: %v", err)
	}
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	if err := authzService.SyncAdminFlag(admin.ID, true); err != nil {
		stdLog.Fatalf("Failed to grant admin role: %v", err)
	}
	logger.Infow("seed_admin_ready", "email", admin.Email, "user_id", admin.ID)

	// 演示商品，按名称去重
	created := 0
	for _, item := range demoProducts {
		var count int64
		if err := models.DB.Model(&models.Product{}).Where("name = ?", item.Name).Count(&count).Error; err != nil {
			stdLog.Fatalf("Failed to check product %s: %v", item.Name, err)
		}
		if count > 0 {
			logger.Infow("seed_product_exists", "name", item.Name)
			continue
		}
		product := models.Product{
			Name:        item.Name,
			Description: item.Description,
			Category:    item.Category,
			PriceAmount: models.MustMoney(item.Price),
			Stock:       item.Stock,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Fatalf("Failed to create product %s: %v", item.Name, err)
		}
		created++
	}
	logger.Infow("seed_products_done", "created", created, "total", len(demoProducts))
}
