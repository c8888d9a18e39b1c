package metrics

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/config"
)

// Module 指标 Fx 模块
//
// Metrics 总是提供；Server 仅在 metrics.enabled 时创建。
var Module = fx.Module("metrics",
	fx.Provide(
		New,
		NewServerFromParams,
	),
	fx.Invoke(registerLifecycle),
)

// ServerParams 指标服务依赖参数
type ServerParams struct {
	fx.In

	Config  *config.Config
	Metrics *Metrics
	Status  StatusProvider `optional:"true"`
}

// ServerResult 指标服务输出
type ServerResult struct {
	fx.Out

	Server *Server
}

// NewServerFromParams 从参数创建指标服务
func NewServerFromParams(p ServerParams) ServerResult {
	if !p.Config.Metrics.Enabled {
		return ServerResult{} // 禁用时返回空输出
	}
	return ServerResult{
		Server: NewServer(ServerConfig{
			Addr:   p.Config.Metrics.ListenAddr,
			Path:   p.Config.Metrics.Path,
			Status: p.Status,
		}, p.Metrics),
	}
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, server *Server) {
	if server == nil {
		return // 禁用时跳过
	}
	lc.Append(fx.Hook{
		OnStart: server.Start,
		OnStop:  server.Stop,
	})
}
