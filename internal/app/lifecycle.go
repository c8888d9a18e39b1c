package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// Run 启动节点并阻塞，直到收到 SIGINT/SIGTERM 或 ctx 取消，然后优雅关闭
func Run(ctx context.Context, b *Bootstrap) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := b.Start(ctx)
	if err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("收到退出信号，正在关闭", "node", rt.Node.ID())

	if err := rt.Stop(context.Background()); err != nil {
		return fmt.Errorf("停止节点失败: %w", err)
	}
	return nil
}
