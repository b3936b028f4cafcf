package app

import (
	"errors"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/router"
	"github.com/storefront-next/internal/worker"
)

// BuildRunner 构建服务运行器，返回的 cleanup 用于释放容器资源
func BuildRunner(cfg *config.Config, mode string) (*Runner, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if err := validateMode(mode); err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg)
	cleanup := container.Close
	syncAdminRoles(container)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务；队列未启用时仅 worker 模式视为错误
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			services = append(services, workerService)
		} else if mode == ModeWorker {
			cleanup()
			return nil, nil, errors.New("worker mode requires queue.enabled")
		} else {
			logger.Warnw("app_worker_skipped", "reason", "queue_disabled")
		}
	}

	if len(services) == 0 {
		cleanup()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), cleanup, nil
}

// syncAdminRoles 为 is_admin 用户补齐 admin 角色，保证种子管理员首次启动即可访问后台
func syncAdminRoles(c *provider.Container) {
	if c == nil || c.UserRepo == nil || c.AuthzService == nil {
		return
	}
	ids, err := c.UserRepo.ListAdminIDs()
	if err != nil {
		logger.Warnw("app_list_admin_ids_failed", "error", err)
		return
	}
	for _, id := range ids {
		if err := c.AuthzService.SyncAdminFlag(id, true); err != nil {
			logger.Warnw("app_sync_admin_role_failed", "user_id", id, "error", err)
		}
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, cleanup, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer cleanup()

	opts.Logger.Infow("app_start",
		"addr", listenAddr(opts.Config.Server),
		"mode", opts.Mode,
		"version", opts.Config.App.Version,
	)
	return RunWithOptions(runner, opts)
}
