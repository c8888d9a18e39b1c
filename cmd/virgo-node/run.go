package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/app"
)

// runFlags run 子命令参数
//
// 命令行参数只覆盖「这次运行」的少量字段，身份与种子路由来自配置文件。
type runFlags struct {
	configFile string
	debugFx    bool
}

// flagKeys 命令行参数 → 配置键
var flagKeys = map[string]string{
	"listen":       "transport.listen_addr",
	"node-id":      "identity.node_id",
	"metrics-addr": "metrics.listen_addr",
	"log-file":     "log.file",
	"log-level":    "log.level",
	"codec":        "heartbeat.codec",
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "启动节点，直到收到 SIGINT/SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), f.configFile)
			if err != nil {
				return err
			}
			b := app.NewBootstrap(cfg, app.WithDebugFx(f.debugFx))
			return app.Run(cmd.Context(), b)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "配置文件路径（yaml/json/toml）")
	flags.BoolVar(&f.debugFx, "debug-fx", false, "输出 fx 依赖注入事件")
	flags.String("listen", "", "UDP 监听地址，如 0.0.0.0:7000")
	flags.String("node-id", "", "节点 ID（为空时生成 UUID）")
	flags.String("metrics-addr", "", "指标服务地址，设置后启用指标服务")
	flags.String("log-file", "", "日志文件路径（滚动）")
	flags.String("log-level", "", "日志级别，如 info 或 election=debug,info")
	flags.String("codec", "", "心跳编解码器：json / cbor / proto")

	return cmd
}

// loadConfig 合并配置文件、环境变量与显式设置的命令行参数
func loadConfig(flags *pflag.FlagSet, path string) (*config.Config, error) {
	v := viper.New()
	for name, key := range flagKeys {
		fl := flags.Lookup(name)
		if fl == nil || !fl.Changed {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return nil, fmt.Errorf("绑定参数 --%s 失败: %w", name, err)
		}
	}
	if flags.Changed("metrics-addr") {
		v.Set("metrics.enabled", true)
	}

	cfg, err := config.Load(path, v)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}
