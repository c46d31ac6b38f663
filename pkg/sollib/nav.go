package sollib

import "time"

// NavigationStateMachine owns the week/day cursor. It is Idle whenever
// RefreshState.IsRefreshing is false and Refreshing otherwise; all
// transitions run inside a Manager.Mutate so they are atomic with
// respect to the orchestrator.
type NavigationStateMachine struct {
	state   *Manager
	trigger func()
	now     func() time.Time
}

// NewNavigationStateMachine creates the machine over the shared state.
// Bind must be called before any transition can start a fetch.
func NewNavigationStateMachine(state *Manager) *NavigationStateMachine {
	return &NavigationStateMachine{
		state: state,
		now:   time.Now,
	}
}

// Bind installs the function that signals the refresh orchestrator.
// Split from the constructor because the orchestrator is built after
// the machine and calls back into it.
func (n *NavigationStateMachine) Bind(trigger func()) {
	n.trigger = trigger
}

// Navigate moves the day cursor one step. Inside the current window the
// move is purely local; stepping past Monday or Friday records the
// pending direction, enters Refreshing and signals the orchestrator to
// fetch the adjacent week. Navigation while Refreshing is ignored.
func (n *NavigationStateMachine) Navigate(dir Direction) error {
	fetch := false
	err := n.state.Mutate(func(s *State) error {
		if s.Refresh.IsRefreshing {
			return nil
		}
		if s.Window == nil || len(s.Window.Days) == 0 {
			// Nothing cached yet; there is no cursor to move.
			return nil
		}
		newIndex := s.Nav.CurrentDayIndex + int(dir)
		if newIndex >= 0 && newIndex < len(s.Window.Days) {
			s.Nav.CurrentDayIndex = newIndex
			return nil
		}
		s.Nav.PendingDirection = dir.String()
		s.Refresh.IsRefreshing = true
		s.Refresh.LastRequestedAt = n.now()
		fetch = true
		return nil
	})
	if err == nil && fetch {
		n.trigger()
	}
	return err
}

// RequestRefresh handles a manual or periodic refresh: the cursor is
// reset to Monday of the current week and the orchestrator is signaled.
// While a refresh is already in flight the cursor is left alone and the
// trigger coalesces into the orchestrator's pending slot.
func (n *NavigationStateMachine) RequestRefresh() error {
	err := n.state.Mutate(func(s *State) error {
		if s.Refresh.IsRefreshing {
			return nil
		}
		s.Nav.CurrentWeekOffset = 0
		s.Nav.CurrentDayIndex = 0
		s.Nav.PendingDirection = ""
		s.Refresh.IsRefreshing = true
		s.Refresh.Error = ""
		s.Refresh.LastRequestedAt = n.now()
		return nil
	})
	if err == nil {
		n.trigger()
	}
	return err
}

// ApplyRefreshSuccess installs a freshly normalized window and returns
// the machine to Idle. A window reached through "previous" lands on
// Friday, any other refresh lands on Monday.
func (n *NavigationStateMachine) ApplyRefreshSuccess(win *WeekWindow, targetOffset int) error {
	return n.state.Mutate(func(s *State) error {
		dir, moved := ParseDirection(s.Nav.PendingDirection)
		s.Window = win
		s.Nav.CurrentWeekOffset = targetOffset
		if moved && dir == DirectionPrevious {
			s.Nav.CurrentDayIndex = len(win.Days) - 1
		} else {
			s.Nav.CurrentDayIndex = 0
		}
		s.Nav.PendingDirection = ""
		s.Refresh.IsRefreshing = false
		s.Refresh.Error = ""
		return nil
	})
}

// ApplyRefreshFailure records the error and returns to Idle. The
// previously cached window is left untouched so the user keeps the
// last good schedule under the error banner.
func (n *NavigationStateMachine) ApplyRefreshFailure(cause error) error {
	return n.state.Mutate(func(s *State) error {
		s.Refresh.Error = UserMessage(cause)
		s.Refresh.IsRefreshing = false
		s.Nav.PendingDirection = ""
		return nil
	})
}
