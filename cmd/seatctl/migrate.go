package main

import (
	"database/sql"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "应用全部未执行的迁移",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := openDB(*configPath)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := database.RunMigrations(sqlDB, logger); err != nil {
				return err
			}
			return printVersion(cmd, sqlDB)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "回滚迁移",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := openDB(*configPath)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := database.RollbackMigrations(sqlDB, steps, logger); err != nil {
				return err
			}
			return printVersion(cmd, sqlDB)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "回滚的版本数")

	version := &cobra.Command{
		Use:   "version",
		Short: "显示当前迁移版本",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, db, err := openDB(*configPath)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return printVersion(cmd, sqlDB)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func printVersion(cmd *cobra.Command, sqlDB *sql.DB) error {
	version, dirty, err := database.MigrationVersion(sqlDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case version == 0:
		color.New(color.FgYellow).Fprintln(out, "尚未执行任何迁移")
	case dirty:
		color.New(color.FgRed).Fprintf(out, "迁移版本 %d（dirty，需要人工处理）\n", version)
	default:
		color.New(color.FgGreen).Fprintf(out, "迁移版本 %d\n", version)
	}
	return nil
}
