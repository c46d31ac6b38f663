package sollib

// Raw SolAPI response shapes. Field names follow the wire format of
// https://aplikace.skolaonline.cz/solapi/api; only the fields the
// normalizer and fetcher consume are declared.

// Hour type identifiers as sent by the API.
const (
	HourTypeSubstituteIn  = "SUPLOVANI"   // lesson substituted in
	HourTypeSubstituteOut = "SUPLOVANA"   // lesson substituted away (cancelled)
	HourTypeSchoolEvent   = "SKOLNI_AKCE" // school event
)

// TokenResponse is the body of POST /connect/token.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the body of GET /v1/user.
type UserResponse struct {
	PersonID     string `json:"personID"`
	SchoolYearID string `json:"schoolYearId"`
}

// Identity is the account context required for timetable requests.
type Identity struct {
	PersonID     string
	SchoolYearID string
}

// RawHourType is the hour-type wrapper on a raw schedule entry.
type RawHourType struct {
	ID string `json:"id"`
}

// RawSubject is the subject attached to a raw schedule entry.
type RawSubject struct {
	Name string `json:"name"`
}

// RawRoom is one room attached to a raw schedule entry.
type RawRoom struct {
	Abbrev string `json:"abbrev"`
}

// RawTeacher is one teacher attached to a raw schedule entry.
type RawTeacher struct {
	DisplayName string `json:"displayName"`
}

// RawDetailHour is one period label attached to a raw schedule entry.
type RawDetailHour struct {
	Name string `json:"name"`
}

// RawEntry is a single raw schedule record.
type RawEntry struct {
	BeginTime    string          `json:"beginTime"`
	EndTime      string          `json:"endTime"`
	LessonIDFrom string          `json:"lessonIdFrom"`
	LessonIDTo   string          `json:"lessonIdTo"`
	HourType     *RawHourType    `json:"hourType"`
	Subject      *RawSubject     `json:"subject"`
	Title        string          `json:"title"`
	Rooms        []RawRoom       `json:"rooms"`
	Teachers     []RawTeacher    `json:"teachers"`
	DetailHours  []RawDetailHour `json:"detailHours"`
}

// RawDay is one calendar day of the raw timetable response.
type RawDay struct {
	Date      string     `json:"date"`
	Schedules []RawEntry `json:"schedules"`
}

// TimetableDocument is the body of GET /v1/timeTable.
type TimetableDocument struct {
	Days []RawDay `json:"days"`
}

// hourTypeID returns the hour-type identifier of the entry, or an empty
// string when none is attached.
func (e *RawEntry) hourTypeID() string {
	if e.HourType == nil {
		return ""
	}
	return e.HourType.ID
}

// slotKey identifies the timetable period the entry occupies,
// independent of which subject occupies it.
func (e *RawEntry) slotKey() string {
	return e.LessonIDFrom + "-" + e.LessonIDTo
}
