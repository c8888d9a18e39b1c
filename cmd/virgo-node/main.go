// Package main 提供 virgo-node 命令行入口
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "virgo-node",
		Short:         "virgo-node - 角色层级协调者选举节点",
		Long:          "virgo-node 为本地节点持有的每个角色选举协调者，并通过周期心跳维持协调者存活状态。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}
