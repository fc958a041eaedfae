package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
)

// renderSeating 每间教室输出一张表
func renderSeating(w io.Writer, resp *dto.SeatingResponse) {
	if len(resp.Rooms) == 0 {
		color.New(color.FgYellow).Fprintf(w, "%s %d 暂无座位分配\n", resp.OwnerType, resp.OwnerID)
		return
	}

	title := color.New(color.FgCyan, color.Bold)
	for _, room := range resp.Rooms {
		name := room.Classroom.Name
		if room.Classroom.Building != "" {
			name = room.Classroom.Building + " / " + name
		}
		title.Fprintf(w, "\n%s  已分配 %d，空余 %d（容量 %d）\n",
			name, room.Assigned, room.Available, room.Classroom.Capacity)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"座位", "编号", "姓", "名"})
		table.SetAutoFormatHeaders(false)
		for _, seat := range room.Seats {
			table.Append([]string{
				strconv.Itoa(seat.SeatNumber),
				seat.Person.Number,
				seat.Person.LastName,
				seat.Person.FirstName,
			})
		}
		table.Render()
	}
	fmt.Fprintf(w, "\n合计 %d 人\n", resp.Headcount)
}
