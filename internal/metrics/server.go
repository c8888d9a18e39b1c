package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dep2p/go-virgo/internal/util/logger"
)

var log = logger.Logger("metrics")

// DefaultPath 默认抓取路径
const DefaultPath = "/metrics"

// StatusProvider 提供 /debug/status 的内容
type StatusProvider interface {
	Status() any
}

// ServerConfig 服务配置
type ServerConfig struct {
	// Addr 监听地址
	Addr string

	// Path 抓取路径，默认 /metrics
	Path string

	// Status 可选的状态提供者
	Status StatusProvider
}

// ============================================================================
//                              Server
// ============================================================================

// Server 本地指标 HTTP 服务
type Server struct {
	config  ServerConfig
	metrics *Metrics

	server   *http.Server
	listener net.Listener
	running  bool

	mu sync.Mutex
}

// NewServer 创建指标服务
func NewServer(cfg ServerConfig, m *Metrics) *Server {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	return &Server{config: cfg, metrics: m}
}

// Start 启动服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(s.config.Path, s.metrics.Handler())
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/debug/status", s.handleStatus)

	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("指标服务异常退出", "error", err)
		}
	}()

	s.running = true
	log.Info("指标服务已启动", "addr", listener.Addr().String(), "path", s.config.Path)
	return nil
}

// Stop 停止服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error("关闭指标服务失败", "error", err)
		return err
	}

	s.running = false
	log.Info("指标服务已停止")
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if s.config.Status == nil {
		http.Error(w, "status not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.config.Status.Status()); err != nil {
		log.Debug("编码状态失败", "error", err)
	}
}
