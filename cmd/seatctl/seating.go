package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("无效的 ID %q", raw)
	}
	return id, nil
}

func newShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <exam|concours> <id>",
		Short: "按教室显示当前座位分配",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseOwner(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			var resp *dto.SeatingResponse
			if kind == "exam" {
				resp, err = a.svc.Seating.GetExamSeating(cmd.Context(), id)
			} else {
				resp, err = a.svc.Seating.GetConcoursSeating(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			renderSeating(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newAssignCmd(configPath *string) *cobra.Command {
	var (
		rooms  []int64
		people []string
	)

	cmd := &cobra.Command{
		Use:   "assign <exam|concours> <id>",
		Short: "重新计算并整体替换座位分配",
		Long: "按容量降序装填教室；exam 的 --people 为学号，concours 的 --people 为考生 ID。\n" +
			"--people 传空字符串表示清空分配。",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseOwner(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			people = compact(people)

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := assign(cmd.Context(), a, kind, id, rooms, people)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已分配 %d 人，使用 %d 间教室\n", resp.Headcount, len(resp.Rooms))
			renderSeating(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&rooms, "rooms", nil, "教室 ID 列表（逗号分隔）")
	cmd.Flags().StringSliceVar(&people, "people", nil, "人员列表（逗号分隔，顺序即座位顺序）")
	_ = cmd.MarkFlagRequired("rooms")
	_ = cmd.MarkFlagRequired("people")
	return cmd
}

func assign(ctx context.Context, a *app, kind string, id int64, rooms []int64, people []string) (*dto.SeatingResponse, error) {
	if kind == "exam" {
		return a.svc.Seating.AssignExam(ctx, id, &dto.AssignExamSeatingRequest{
			ClassroomIDs:   rooms,
			StudentNumbers: people,
		})
	}

	ids := make([]int64, 0, len(people))
	for _, raw := range people {
		cid, err := parseID(raw)
		if err != nil {
			return nil, fmt.Errorf("考生 %w", err)
		}
		ids = append(ids, cid)
	}
	return a.svc.Seating.AssignConcours(ctx, id, &dto.AssignConcoursSeatingRequest{
		ClassroomIDs: rooms,
		CandidateIDs: ids,
	})
}

func newClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <exam|concours> <id>",
		Short: "清空座位分配",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseOwner(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			var deleted int64
			if kind == "exam" {
				deleted, err = a.svc.Seating.ClearExamSeating(cmd.Context(), id)
			} else {
				deleted, err = a.svc.Seating.ClearConcoursSeating(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "已删除 %d 条座位记录\n", deleted)
			return nil
		},
	}
}

// compact 去掉空白项（--people "" 解析为 [""]）
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
