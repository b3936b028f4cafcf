package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	adminhandlers "github.com/storefront-next/internal/http/handlers/admin"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	uploadPrefix := strings.TrimSpace(cfg.Upload.URLPrefix)
	if uploadPrefix == "" {
		uploadPrefix = "/uploads"
	}
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static(uploadPrefix, uploadDir)

	apiV1 := r.Group("/api/v1")
	{
		// 商品目录（公开）
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/latest", publicHandler.GetLatestProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/categories", publicHandler.GetCategories)

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetMe)

			user.GET("/cart", publicHandler.GetCart)
			user.GET("/cart/count", publicHandler.GetCartCount)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items", publicHandler.BatchUpdateCart)
			user.PATCH("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.DeleteCartItem)

			user.POST("/orders/checkout", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/auth/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("email")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/auth/me", adminHandler.GetAdminMe)
				authorized.GET("/authz/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// 仪表盘
				authorized.GET("/dashboard", adminHandler.GetDashboard)

				// 商品与库存
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.PUT("/products/:id/stock", adminHandler.SetProductStock)
				authorized.POST("/upload", adminHandler.UploadFile)

				// 订单管理
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(metrics.Handler()))
	}

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/auth/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
