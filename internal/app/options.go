package app

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/internal/transport/mem"
)

// Option Bootstrap 配置选项
type Option func(*Bootstrap)

// WithFxOptions 追加 fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(b *Bootstrap) {
		b.extra = append(b.extra, opts...)
	}
}

// WithClock 替换时钟（测试使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return WithFxOptions(fx.Decorate(func(clock.Clock) clock.Clock { return c }))
}

// WithMemNetwork 指定内存传输使用的网络（transport.kind = mem 时生效）
func WithMemNetwork(n *mem.Network) Option {
	return WithFxOptions(fx.Supply(n))
}

// WithDebugFx 输出 fx 依赖注入事件日志
func WithDebugFx(enabled bool) Option {
	return func(b *Bootstrap) {
		b.debugFx = enabled
	}
}
