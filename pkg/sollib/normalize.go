package sollib

import (
	"sort"
	"time"
)

// fallback subject names used when the API omits them.
const (
	eventFallbackTitle  = "Školní akce"
	subjectFallbackName = "?"
)

// Normalize converts a raw timetable document into the Monday-to-Friday
// window starting at weekStart. It is a pure function: the same document
// and week start always produce the same window.
//
// Raw entries are grouped by calendar date, deduplicated per slot
// (substitute-in records win over substituted-away records occupying the
// same slot), sorted by begin time and mapped to lessons. Each of the
// five weekdays is always present in the result; weekdays with no raw
// entries become free days.
func Normalize(doc *TimetableDocument, weekStart time.Time) WeekWindow {
	byDate := groupEntries(doc)

	win := WeekWindow{
		WeekStart: weekStart.Format(dayLayout),
		Days:      make([]ScheduleDay, 0, DaysPerWindow),
	}
	for i := 0; i < DaysPerWindow; i++ {
		date := weekStart.AddDate(0, 0, i)
		key := date.Format(dayLayout)

		entries := dedupeSlots(byDate[key])
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].BeginTime < entries[b].BeginTime
		})

		lessons := make([]Lesson, 0, len(entries))
		for i := range entries {
			lessons = append(lessons, mapLesson(&entries[i]))
		}

		win.Days = append(win.Days, ScheduleDay{
			Date:      date.Format(apiTimeLayout),
			DateLabel: DateLabel(date),
			Lessons:   lessons,
			IsFreeDay: len(lessons) == 0,
		})
	}
	return win
}

// groupEntries collects raw entries by the date portion of their day's
// timestamp. Days that repeat a date are merged.
func groupEntries(doc *TimetableDocument) map[string][]RawEntry {
	byDate := make(map[string][]RawEntry)
	if doc == nil {
		return byDate
	}
	for _, day := range doc.Days {
		key := dayOf(day.Date)
		if key == "" {
			continue
		}
		byDate[key] = append(byDate[key], day.Schedules...)
	}
	return byDate
}

// dedupeSlots keeps at most one entry per (lessonIdFrom, lessonIdTo)
// slot. A substitute-in entry replaces a substituted-away entry for the
// same slot; otherwise the first entry wins.
func dedupeSlots(entries []RawEntry) []RawEntry {
	if len(entries) < 2 {
		return append([]RawEntry(nil), entries...)
	}
	bySlot := make(map[string]int, len(entries))
	kept := make([]RawEntry, 0, len(entries))
	for _, e := range entries {
		key := e.slotKey()
		i, seen := bySlot[key]
		if !seen {
			bySlot[key] = len(kept)
			kept = append(kept, e)
			continue
		}
		if e.hourTypeID() == HourTypeSubstituteIn && kept[i].hourTypeID() == HourTypeSubstituteOut {
			kept[i] = e
		}
	}
	return kept
}

// mapLesson converts a surviving raw entry into its display model.
func mapLesson(e *RawEntry) Lesson {
	hourType := e.hourTypeID()

	subject := subjectFallbackName
	if hourType == HourTypeSchoolEvent {
		subject = eventFallbackTitle
		if e.Title != "" {
			subject = e.Title
		}
	} else if e.Subject != nil && e.Subject.Name != "" {
		subject = e.Subject.Name
	}

	// Room and teacher are shown only when unambiguous; multi-room or
	// multi-teacher entries render blank rather than a list.
	var room, teacher string
	if len(e.Rooms) == 1 {
		room = e.Rooms[0].Abbrev
	}
	if len(e.Teachers) == 1 {
		teacher = e.Teachers[0].DisplayName
	}

	return Lesson{
		LessonNum:   lessonNumber(e),
		TimeStart:   formatClock(e.BeginTime),
		TimeEnd:     formatClock(e.EndTime),
		Subject:     subject,
		Room:        room,
		Teacher:     teacher,
		IsSupl:      hourType == HourTypeSubstituteIn,
		IsCancelled: hourType == HourTypeSubstituteOut,
		IsEvent:     hourType == HourTypeSchoolEvent,
	}
}

// lessonNumber derives the displayed period number. Detail-hour labels
// take precedence, with a multi-hour entry collapsed into "first-last"
// form; entries without detail hours fall back to the raw lesson-id
// range.
func lessonNumber(e *RawEntry) string {
	if n := len(e.DetailHours); n > 0 {
		first := e.DetailHours[0].Name
		if n == 1 {
			return first
		}
		return first + "-" + e.DetailHours[n-1].Name
	}
	if e.LessonIDFrom == e.LessonIDTo {
		return e.LessonIDFrom
	}
	return e.LessonIDFrom + "-" + e.LessonIDTo
}
