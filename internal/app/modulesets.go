package app

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/election"
	"github.com/dep2p/go-virgo/internal/heartbeat"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/node"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/internal/transport/mem"
	"github.com/dep2p/go-virgo/internal/transport/udp"
	"github.com/dep2p/go-virgo/internal/util/logger"
	"github.com/dep2p/go-virgo/pkg/interfaces"
	"github.com/dep2p/go-virgo/pkg/types"
)

var log = logger.Logger("app")

// ============================================================================
//                              模块集合
// ============================================================================

// FoundationModules 基础层：单调时钟与本地节点身份
func FoundationModules() fx.Option {
	return fx.Module("foundation",
		fx.Provide(
			provideClock,
			provideSelf,
		),
	)
}

// TransportModules 传输层：按 transport.kind 选择实现
func TransportModules(cfg *config.Config) fx.Option {
	if cfg.Transport.Kind == config.TransportMemory {
		return fx.Module("transport",
			fx.Provide(provideMemTransport),
		)
	}
	return fx.Module("transport",
		fx.Provide(provideUDPTransport),
	)
}

// DomainModules 领域层：路由表、选举、心跳
func DomainModules() fx.Option {
	return fx.Options(
		routing.Module,
		election.Module,
		heartbeat.Module,
	)
}

// MonitoringModules 监控层：指标与本地 HTTP 服务
func MonitoringModules() fx.Option {
	return metrics.Module
}

// NodeModules 节点服务
func NodeModules() fx.Option {
	return node.Module
}

// ============================================================================
//                              构造函数
// ============================================================================

func provideClock() clock.Clock {
	return clock.New()
}

// provideSelf 从配置构造本地节点，未配置 ID 时生成 UUID
func provideSelf(cfg *config.Config) (types.Node, error) {
	id := types.NodeID(cfg.Identity.NodeID)
	if id.IsEmpty() {
		id = types.NodeID(uuid.NewString())
		log.Info("未配置节点 ID，已生成", "node", id)
	}
	self := cfg.Identity.Node(id)
	if err := self.Validate(); err != nil {
		return types.Node{}, fmt.Errorf("本地节点身份无效: %w", err)
	}
	return self, nil
}

func provideUDPTransport(cfg *config.Config) (interfaces.Transport, error) {
	return udp.Listen(cfg.Transport.ListenAddr, cfg.Transport.ReadBufferSize)
}

// memTransportParams 内存传输依赖参数
type memTransportParams struct {
	fx.In

	Config  *config.Config
	Network *mem.Network `optional:"true"`
}

// provideMemTransport 在注入的（或私有的）内存网络上监听
func provideMemTransport(p memTransportParams) (interfaces.Transport, error) {
	network := p.Network
	if network == nil {
		network = mem.NewNetwork()
	}
	return network.Listen(p.Config.Transport.ListenAddr)
}
