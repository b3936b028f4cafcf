package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/storefront-next/internal/config"
)

// HTTPService HTTP 服务封装
type HTTPService struct {
	name   string
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务，读写超时取自 server 配置
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	server := &http.Server{
		Addr:              listenAddr(cfg),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.ReadTimeoutSeconds > 0 {
		server.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		server.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}
	return &HTTPService{name: "http", server: server}
}

func listenAddr(cfg config.ServerConfig) string {
	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	return cfg.Host + ":" + port
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Name 服务名称
func (s *HTTPService) Name() string {
	if s == nil || s.name == "" {
		return "http"
	}
	return s.name
}

// Start 启动服务
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止服务
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
