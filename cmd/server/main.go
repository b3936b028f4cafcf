package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/storefront-next/internal/app"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	printStartupBanner(cfg, mode)

	for name, secret := range map[string]string{"jwt": cfg.JWT.SecretKey, "user_jwt": cfg.UserJWT.SecretKey} {
		if !isWeakSecret(secret) {
			continue
		}
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("%s secret 过弱或仍为默认值，请在生产环境中配置强随机密钥", name)
		}
		logger.Warnw("weak_jwt_secret", "section", name)
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if err := models.CloseDB(); err != nil {
			logger.Warnw("db_close_failed", "error", err)
		}
	}()

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化默认管理员账号
	if cfg.Server.Mode == "release" && cfg.SeedAdmin.Password == "admin123" {
		logger.Warnw("default_admin_skipped", "reason", "default_password_in_release")
	} else if _, err := models.InitDefaultAdmin(cfg.SeedAdmin.Name, cfg.SeedAdmin.Email, cfg.SeedAdmin.Password); err != nil {
		logger.Warnw("default_admin_init_failed", "error", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner(cfg *config.Config, mode string) {
	fmt.Println(ansiCyan + ansiBold + "Storefront API" + ansiReset + ansiDim + " " + cfg.App.Version + ansiReset)
	fmt.Println(ansiGreen + "• mode:     " + mode + ansiReset)
	fmt.Println(ansiGreen + "• listen:   " + cfg.Server.Host + ":" + cfg.Server.Port + ansiReset)
	fmt.Println(ansiGreen + "• database: " + cfg.Database.Driver + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
