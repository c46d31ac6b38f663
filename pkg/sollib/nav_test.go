package sollib

import (
	"errors"
	"testing"
	"time"
)

type navFixture struct {
	state    *Manager
	machine  *NavigationStateMachine
	triggers int
}

func newNavFixture(t *testing.T) *navFixture {
	t.Helper()
	f := &navFixture{state: NewManager(NewMemStore())}
	f.machine = NewNavigationStateMachine(f.state)
	f.machine.now = func() time.Time {
		return time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
	}
	f.machine.Bind(func() { f.triggers++ })
	return f
}

func (f *navFixture) seedWindow(t *testing.T, dayIndex int) {
	t.Helper()
	if err := f.state.Mutate(func(s *State) error {
		s.Window = testWindow("2024-06-03")
		s.Nav.CurrentDayIndex = dayIndex
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (f *navFixture) snapshot(t *testing.T) State {
	t.Helper()
	s, err := f.state.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return s
}

func TestNavigateWithinWindow(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		dir       Direction
		wantIndex int
	}{
		{"forward", 1, DirectionNext, 2},
		{"backward", 3, DirectionPrevious, 2},
		{"to first", 1, DirectionPrevious, 0},
		{"to last", 3, DirectionNext, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNavFixture(t)
			f.seedWindow(t, tt.start)

			if err := f.machine.Navigate(tt.dir); err != nil {
				t.Fatalf("Navigate: %v", err)
			}
			s := f.snapshot(t)
			if s.Nav.CurrentDayIndex != tt.wantIndex {
				t.Errorf("CurrentDayIndex = %d, want %d", s.Nav.CurrentDayIndex, tt.wantIndex)
			}
			if s.Refresh.IsRefreshing {
				t.Error("local move started a refresh")
			}
			if f.triggers != 0 {
				t.Errorf("trigger fired %d times on a local move", f.triggers)
			}
		})
	}
}

func TestNavigateCrossesWeekBoundary(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		dir     Direction
		pending string
	}{
		{"past friday", 4, DirectionNext, "next"},
		{"before monday", 0, DirectionPrevious, "previous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNavFixture(t)
			f.seedWindow(t, tt.start)

			if err := f.machine.Navigate(tt.dir); err != nil {
				t.Fatalf("Navigate: %v", err)
			}
			s := f.snapshot(t)
			if s.Nav.CurrentDayIndex != tt.start {
				t.Errorf("CurrentDayIndex moved to %d during fetch", s.Nav.CurrentDayIndex)
			}
			if s.Nav.PendingDirection != tt.pending {
				t.Errorf("PendingDirection = %q, want %q", s.Nav.PendingDirection, tt.pending)
			}
			if !s.Refresh.IsRefreshing {
				t.Error("IsRefreshing = false, want true")
			}
			if s.Refresh.LastRequestedAt.IsZero() {
				t.Error("LastRequestedAt not recorded")
			}
			if f.triggers != 1 {
				t.Errorf("trigger fired %d times, want 1", f.triggers)
			}
		})
	}
}

func TestNavigateIgnoredWhileRefreshing(t *testing.T) {
	f := newNavFixture(t)
	f.seedWindow(t, 2)
	if err := f.state.Mutate(func(s *State) error {
		s.Refresh.IsRefreshing = true
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	if err := f.machine.Navigate(DirectionNext); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	s := f.snapshot(t)
	if s.Nav.CurrentDayIndex != 2 {
		t.Errorf("CurrentDayIndex = %d, want unchanged 2", s.Nav.CurrentDayIndex)
	}
	if f.triggers != 0 {
		t.Error("navigation during refresh fired the trigger")
	}
}

func TestNavigateWithoutWindow(t *testing.T) {
	f := newNavFixture(t)

	if err := f.machine.Navigate(DirectionNext); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	s := f.snapshot(t)
	if s.Refresh.IsRefreshing || f.triggers != 0 {
		t.Error("navigation without a cached window started a fetch")
	}
}

func TestRequestRefreshResetsCursor(t *testing.T) {
	f := newNavFixture(t)
	f.seedWindow(t, 3)
	if err := f.state.Mutate(func(s *State) error {
		s.Nav.CurrentWeekOffset = -2
		s.Refresh.Error = "Chyba rozvrhu"
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	s := f.snapshot(t)
	if s.Nav.CurrentWeekOffset != 0 || s.Nav.CurrentDayIndex != 0 {
		t.Errorf("Nav = %+v, want cursor reset", s.Nav)
	}
	if !s.Refresh.IsRefreshing {
		t.Error("IsRefreshing = false, want true")
	}
	if s.Refresh.Error != "" {
		t.Errorf("Error = %q, want cleared", s.Refresh.Error)
	}
	if f.triggers != 1 {
		t.Errorf("trigger fired %d times, want 1", f.triggers)
	}
}

func TestRequestRefreshWhileRefreshingStillTriggers(t *testing.T) {
	f := newNavFixture(t)
	f.seedWindow(t, 3)
	if err := f.state.Mutate(func(s *State) error {
		s.Refresh.IsRefreshing = true
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	s := f.snapshot(t)
	if s.Nav.CurrentDayIndex != 3 {
		t.Errorf("CurrentDayIndex = %d, want untouched 3", s.Nav.CurrentDayIndex)
	}
	// The trigger still fires so the orchestrator coalesces the request.
	if f.triggers != 1 {
		t.Errorf("trigger fired %d times, want 1", f.triggers)
	}
}

func TestApplyRefreshSuccessLandsOnMonday(t *testing.T) {
	f := newNavFixture(t)
	f.seedWindow(t, 4)
	if err := f.state.Mutate(func(s *State) error {
		s.Nav.PendingDirection = "next"
		s.Refresh.IsRefreshing = true
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	win := testWindow("2024-06-10")
	if err := f.machine.ApplyRefreshSuccess(win, 1); err != nil {
		t.Fatalf("ApplyRefreshSuccess: %v", err)
	}
	s := f.snapshot(t)
	if s.Window.WeekStart != "2024-06-10" {
		t.Errorf("WeekStart = %q, want new window", s.Window.WeekStart)
	}
	if s.Nav.CurrentWeekOffset != 1 || s.Nav.CurrentDayIndex != 0 {
		t.Errorf("Nav = %+v, want offset 1 index 0", s.Nav)
	}
	if s.Nav.PendingDirection != "" || s.Refresh.IsRefreshing || s.Refresh.Error != "" {
		t.Errorf("refresh state not cleared: %+v %+v", s.Nav, s.Refresh)
	}
}

func TestApplyRefreshSuccessLandsOnFridayGoingBack(t *testing.T) {
	f := newNavFixture(t)
	f.seedWindow(t, 0)
	if err := f.state.Mutate(func(s *State) error {
		s.Nav.PendingDirection = "previous"
		s.Refresh.IsRefreshing = true
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	if err := f.machine.ApplyRefreshSuccess(testWindow("2024-05-27"), -1); err != nil {
		t.Fatalf("ApplyRefreshSuccess: %v", err)
	}
	s := f.snapshot(t)
	if s.Nav.CurrentDayIndex != DaysPerWindow-1 {
		t.Errorf("CurrentDayIndex = %d, want %d", s.Nav.CurrentDayIndex, DaysPerWindow-1)
	}
	if s.Nav.CurrentWeekOffset != -1 {
		t.Errorf("CurrentWeekOffset = %d, want -1", s.Nav.CurrentWeekOffset)
	}
}

func TestApplyRefreshFailureKeepsWindow(t *testing.T) {
	f := newNavFixture(t)
	f.seedWindow(t, 2)
	if err := f.state.Mutate(func(s *State) error {
		s.Nav.PendingDirection = "next"
		s.Refresh.IsRefreshing = true
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	if err := f.machine.ApplyRefreshFailure(&FetchError{Op: "timetable fetch", Err: errors.New("timeout")}); err != nil {
		t.Fatalf("ApplyRefreshFailure: %v", err)
	}
	s := f.snapshot(t)
	if s.Window == nil || s.Window.WeekStart != "2024-06-03" {
		t.Error("cached window lost on failure")
	}
	if s.Refresh.IsRefreshing {
		t.Error("IsRefreshing = true after failure")
	}
	if s.Refresh.Error != "Chyba rozvrhu" {
		t.Errorf("Error = %q, want %q", s.Refresh.Error, "Chyba rozvrhu")
	}
	if s.Nav.PendingDirection != "" {
		t.Errorf("PendingDirection = %q, want cleared", s.Nav.PendingDirection)
	}
	if s.Nav.CurrentDayIndex != 2 {
		t.Errorf("CurrentDayIndex = %d, want unchanged 2", s.Nav.CurrentDayIndex)
	}
}
