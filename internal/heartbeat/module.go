package heartbeat

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/election"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/interfaces"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//
//	Fx 模块定义
//
// ============================================================================

// Module Heartbeat Fx 模块
var Module = fx.Module("heartbeat",
	fx.Provide(
		NewCodecFromParams,
		NewTrackerFromParams,
	),
)

// CodecParams 编解码器依赖参数
type CodecParams struct {
	fx.In

	Config *config.Config
}

// CodecResult 编解码器导出结果
type CodecResult struct {
	fx.Out

	Codec interfaces.HeartbeatCodec
}

// TrackerParams 追踪器依赖参数
type TrackerParams struct {
	fx.In

	Config       *config.Config
	Node         types.Node
	Coordinators *election.Coordinators
	RouteTable   *routing.RouteTable
	Transport    interfaces.Transport
	Codec        interfaces.HeartbeatCodec
	Clock        clock.Clock      `optional:"true"`
	Metrics      *metrics.Metrics `optional:"true"`
}

// TrackerResult 追踪器导出结果
type TrackerResult struct {
	fx.Out

	Tracker *Tracker
}

// NewCodecFromParams 从 Fx 参数创建编解码器
func NewCodecFromParams(p CodecParams) (CodecResult, error) {
	codec, err := NewCodec(p.Config.Heartbeat.Codec)
	if err != nil {
		return CodecResult{}, err
	}
	return CodecResult{Codec: codec}, nil
}

// NewTrackerFromParams 从 Fx 参数创建追踪器
func NewTrackerFromParams(p TrackerParams) TrackerResult {
	tracker := NewTracker(p.Node, p.Coordinators, p.Transport, p.Codec,
		WithClock(p.Clock),
		WithReporter(p.RouteTable),
		WithSendTimeout(p.Config.Heartbeat.SendTimeout),
		WithMaxConcurrentSends(p.Config.Heartbeat.MaxConcurrentSends),
		WithMetrics(p.Metrics),
	)
	return TrackerResult{Tracker: tracker}
}
