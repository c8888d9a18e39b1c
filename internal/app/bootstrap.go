// Package app 提供 virgo 节点的应用编排层
//
// app 包负责：
//   - 日志输出配置（级别、格式、滚动文件）
//   - fx 模块组装
//   - 生命周期管理
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/node"
)

// 启停超时
const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 15 * time.Second
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	config *config.Config
	fxApp  *fx.App

	// extra 测试或调用方追加的 fx 选项
	extra   []fx.Option
	debugFx bool

	node    *node.Node
	metrics *metrics.Metrics
	closers []func() error
}

// NewBootstrap 创建引导程序
func NewBootstrap(cfg *config.Config, opts ...Option) *Bootstrap {
	b := &Bootstrap{config: cfg}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build 校验配置、配置日志并组装 fx 应用（不启动）
func (b *Bootstrap) Build() error {
	if b.config == nil {
		b.config = config.NewConfig()
	}
	if err := b.config.Validate(); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}

	if err := b.setupLogging(); err != nil {
		return fmt.Errorf("设置日志失败: %w", err)
	}

	b.fxApp = fx.New(
		fx.Supply(b.config),
		fx.Options(b.setupModules()...),
		fx.Options(b.extra...),
		fx.WithLogger(b.fxLogger),
		fx.Populate(&b.node, &b.metrics),
	)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("组装模块失败: %w", err)
	}
	return nil
}

// Start 构建并启动节点
func (b *Bootstrap) Start(ctx context.Context) (*Runtime, error) {
	if err := b.Build(); err != nil {
		b.close()
		return nil, err
	}

	startCtx, cancel := context.WithTimeout(ctx, DefaultStartTimeout)
	defer cancel()

	if err := b.fxApp.Start(startCtx); err != nil {
		b.close()
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}

	return &Runtime{
		Node:    b.node,
		Metrics: b.metrics,
		stop:    b.Stop,
	}, nil
}

// Stop 停止应用
func (b *Bootstrap) Stop(ctx context.Context) error {
	if b.fxApp == nil {
		return nil
	}
	defer b.close()

	stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
	defer cancel()

	return b.fxApp.Stop(stopCtx)
}

// setupModules 组装所有 fx 模块
func (b *Bootstrap) setupModules() []fx.Option {
	return []fx.Option{
		// 基础层：时钟、节点身份
		FoundationModules(),

		// 传输层
		TransportModules(b.config),

		// 领域层：路由、选举、心跳
		DomainModules(),

		// 监控层
		MonitoringModules(),

		// 节点
		NodeModules(),
	}
}

func (b *Bootstrap) fxLogger() fxevent.Logger {
	if b.debugFx {
		if l, err := zap.NewDevelopment(); err == nil {
			return &fxevent.ZapLogger{Logger: l}
		}
	}
	// 禁用 Fx 日志输出（避免干扰节点日志）
	return &fxevent.ZapLogger{Logger: zap.NewNop()}
}

func (b *Bootstrap) close() {
	for _, c := range b.closers {
		_ = c()
	}
	b.closers = nil
}
