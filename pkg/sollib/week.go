package sollib

import (
	"fmt"
	"time"
)

// Wire formats used by the SolAPI.
const (
	// apiTimeLayout is how the API renders timestamps inside response
	// bodies (date, beginTime, endTime).
	apiTimeLayout = "2006-01-02T15:04:05"

	// apiQueryLayout is how DateFrom/DateTo query parameters are
	// formatted, including milliseconds.
	apiQueryLayout = "2006-01-02T15:04:05.000"

	// dayLayout is the date-only portion used for grouping entries by
	// calendar day.
	dayLayout = "2006-01-02"
)

// weekdayShortNames are the localized Mon..Sun short names used in day
// labels.
var weekdayShortNames = [7]string{"Po", "Út", "St", "Čt", "Pá", "So", "Ne"}

// WeekStart returns midnight of the Monday of the week containing now,
// shifted by offset weeks.
func WeekStart(now time.Time, offset int) time.Time {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monday = monday.AddDate(0, 0, -daysSinceMonday)
	return monday.AddDate(0, 0, offset*7)
}

// WeekEnd returns midnight of the Friday of the window starting at
// weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, DaysPerWindow-1)
}

// DateLabel renders the localized day label for a date, e.g. "Po 3.6.".
func DateLabel(t time.Time) string {
	name := weekdayShortNames[(int(t.Weekday())+6)%7]
	return fmt.Sprintf("%s %d.%d.", name, t.Day(), int(t.Month()))
}

// formatClock renders the HH:mm portion of an API timestamp, or an
// empty string when the timestamp does not parse.
func formatClock(apiTime string) string {
	t, err := time.Parse(apiTimeLayout, apiTime)
	if err != nil {
		return ""
	}
	return t.Format("15:04")
}

// dayOf extracts the date-only portion of an API timestamp. Returns an
// empty string when the timestamp does not parse.
func dayOf(apiTime string) string {
	t, err := time.Parse(apiTimeLayout, apiTime)
	if err != nil {
		return ""
	}
	return t.Format(dayLayout)
}
