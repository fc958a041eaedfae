package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/middleware"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/jwt"
)

func newTokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发本地调试用的 Access Token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch role {
			case middleware.RoleAdmin, middleware.RolePlanner, middleware.RoleViewer:
			default:
				return fmt.Errorf("未知角色 %q（可选 admin / planner / viewer）", role)
			}

			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			token, err := jwt.NewManager(&cfg.Auth).Issue(userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "用户 ID")
	cmd.Flags().StringVar(&role, "role", middleware.RolePlanner, "角色")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "有效期")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
