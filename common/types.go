package common

import "github.com/solwidget/solw/pkg/sollib"

type LoginParams struct {
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	Ok bool `json:"ok"`
}

type NavigateParams struct {
	Direction string `json:"direction"`
}

type ScheduleParams struct{}

// ScheduleResponse is the full presentation snapshot: the cached window
// plus the cursor and refresh progress.
type ScheduleResponse struct {
	Window            *sollib.WeekWindow `json:"window,omitempty"`
	CurrentDayIndex   int                `json:"current_day_index"`
	CurrentWeekOffset int                `json:"current_week_offset"`
	IsRefreshing      bool               `json:"is_refreshing"`
	Error             string             `json:"error,omitempty"`
}

type StatusResponse struct {
	LoggedIn        bool   `json:"logged_in"`
	IsRefreshing    bool   `json:"is_refreshing"`
	Error           string `json:"error,omitempty"`
	LastRequestedAt string `json:"last_requested_at,omitempty"`
	HasCachedWeek   bool   `json:"has_cached_week"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

// ScheduleUpdate is the push broadcast sent to attached clients after
// every refresh attempt.
type ScheduleUpdate struct {
	Action       ScheduleAction `json:"action"`
	IsRefreshing bool           `json:"is_refreshing"`
	Error        string         `json:"error,omitempty"`
}
