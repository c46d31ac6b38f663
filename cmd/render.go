package cmd

import (
	"fmt"
	"strings"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/pkg/sollib"
)

// printSchedule renders the currently selected day of the cached week.
func printSchedule(resp *common.ScheduleResponse) {
	if resp.Error != "" {
		fmt.Println("!", resp.Error)
	}
	if resp.Window == nil {
		if resp.IsRefreshing {
			fmt.Println("Refreshing, no schedule cached yet.")
		} else {
			fmt.Println("No schedule cached. Log in with: solw login <refresh-token>")
		}
		return
	}

	idx := resp.CurrentDayIndex
	if idx < 0 || idx >= len(resp.Window.Days) {
		idx = 0
	}
	day := resp.Window.Days[idx]

	header := day.DateLabel
	if resp.CurrentWeekOffset != 0 {
		header = fmt.Sprintf("%s (week %+d)", header, resp.CurrentWeekOffset)
	}
	if resp.IsRefreshing {
		header += " [refreshing]"
	}
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))

	if day.IsFreeDay || len(day.Lessons) == 0 {
		fmt.Println("Free day.")
		return
	}
	for _, l := range day.Lessons {
		fmt.Println(formatLesson(l))
	}
}

func formatLesson(l sollib.Lesson) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %s-%s  %s", l.LessonNum+".", l.TimeStart, l.TimeEnd, l.Subject)
	if l.Room != "" {
		fmt.Fprintf(&b, "  %s", l.Room)
	}
	if l.Teacher != "" {
		fmt.Fprintf(&b, "  %s", l.Teacher)
	}
	switch {
	case l.IsCancelled:
		b.WriteString("  (odpadá)")
	case l.IsSupl:
		b.WriteString("  (suplování)")
	case l.IsEvent:
		b.WriteString("  (akce)")
	}
	return b.String()
}
