package app

import (
	"context"

	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/node"
)

// Runtime 已启动的节点运行时
type Runtime struct {
	Node    *node.Node
	Metrics *metrics.Metrics

	stop func(ctx context.Context) error
}

// Stop 停止运行时（触发 fx 生命周期 OnStop）
func (r *Runtime) Stop(ctx context.Context) error {
	if r.stop == nil {
		return nil
	}
	return r.stop(ctx)
}
