// seatctl 座位分配运维命令行：数据库迁移、查看 / 分配 / 清空座位、签发调试 Token。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "seatctl",
		Short:         "考场座位分配运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(
		newMigrateCmd(&configPath),
		newShowCmd(&configPath),
		newAssignCmd(&configPath),
		newClearCmd(&configPath),
		newTokenCmd(&configPath),
	)
	return root
}

// parseOwner 解析 "exam" / "concours" 子命令参数
func parseOwner(kind string) (string, error) {
	switch kind {
	case "exam", "concours":
		return kind, nil
	default:
		return "", fmt.Errorf("未知的归属方类型 %q（可选 exam / concours）", kind)
	}
}
