// Package sollib implements the timetable synchronization core: token
// exchange against the SkolaOnline API, schedule fetching, normalization
// of raw schedule records into a per-day lesson model, and the navigation
// and refresh state shared with presentation layers.
package sollib

import "time"

// Direction is a single-day navigation step.
type Direction int

const (
	DirectionPrevious Direction = -1
	DirectionNext     Direction = 1
)

// String returns the persisted marker value for the direction.
func (d Direction) String() string {
	switch d {
	case DirectionPrevious:
		return "previous"
	case DirectionNext:
		return "next"
	default:
		return ""
	}
}

// ParseDirection converts a persisted marker back into a Direction.
// The second return value reports whether the marker was recognized.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "previous":
		return DirectionPrevious, true
	case "next":
		return DirectionNext, true
	default:
		return 0, false
	}
}

// Lesson is a single normalized timetable entry.
//
// At most one of IsSupl, IsCancelled and IsEvent is true; all three are
// false for an ordinary lesson. LessonNum may be a single period ("3") or
// a collapsed range ("3-4").
type Lesson struct {
	LessonNum   string `json:"lessonNum"`
	TimeStart   string `json:"timeStart"`
	TimeEnd     string `json:"timeEnd"`
	Subject     string `json:"subject"`
	Room        string `json:"room"`
	Teacher     string `json:"teacher"`
	IsSupl      bool   `json:"isSupl"`
	IsCancelled bool   `json:"isCancelled"`
	IsEvent     bool   `json:"isEvent"`
}

// ScheduleDay is one weekday of the cached window.
//
// Date is midnight of the calendar day. IsFreeDay is true iff the remote
// source returned no entries at all for that date, which presentation
// layers render distinctly from an error.
type ScheduleDay struct {
	Date      string   `json:"date"`
	DateLabel string   `json:"dateLabel"`
	Lessons   []Lesson `json:"lessons"`
	IsFreeDay bool     `json:"isFreeDay"`
}

// DaysPerWindow is the number of weekdays in a week window (Mon-Fri).
const DaysPerWindow = 5

// WeekWindow is the Monday-through-Friday span currently cached.
// After any successful refresh it always holds exactly DaysPerWindow
// days in weekday order; weekdays missing from the remote response are
// synthesized as free days.
type WeekWindow struct {
	WeekStart string        `json:"weekStart"`
	Days      []ScheduleDay `json:"days"`
}

// NavigationState is the "which week / which day" cursor.
type NavigationState struct {
	// CurrentWeekOffset is the offset in weeks from the week containing
	// today. Zero means the current week.
	CurrentWeekOffset int
	// CurrentDayIndex indexes into WeekWindow.Days, always within
	// [0, len(Days)-1].
	CurrentDayIndex int
	// PendingDirection is set only while a cross-week fetch is in
	// flight; empty otherwise.
	PendingDirection string
}

// RefreshState describes the progress of the last refresh.
type RefreshState struct {
	IsRefreshing    bool
	Error           string
	LastRequestedAt time.Time
}
