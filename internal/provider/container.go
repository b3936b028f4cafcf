package provider

import (
	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/messaging"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   messaging.Publisher

	// Repositories
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserAuthService  *service.UserAuthService
	UserService      *service.UserService
	UploadService    *service.UploadService
	InventoryService *service.InventoryService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   messaging.NewPublisher(&cfg.Events),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	store := c.Config.Store
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.Config, c.UserRepo, c.AuthzService)
	c.UploadService = service.NewUploadService(&c.Config.Upload)
	c.InventoryService = service.NewInventoryService(c.ProductRepo, c.QueueClient, store.LowStockThreshold)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CartRepo, c.OrderRepo, c.InventoryService, c.UploadService, store.LatestProductsLimit)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, store.CartCountCacheSeconds)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.InventoryService, c.QueueClient, store.AdminOrderPageSize)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.OrderRepo, c.ProductRepo, store.LowStockThreshold)
}

// Close 释放队列客户端与事件发布器
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
}
