package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// 构建时通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "v0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "virgo-node %s\n", Version)
			if GitCommit != "" {
				fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			}
			if BuildDate != "" {
				fmt.Fprintf(out, "  built:  %s\n", BuildDate)
			}
		},
	}
}
