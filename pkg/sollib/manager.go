package sollib

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// State is the complete persisted widget state: the cached week window
// plus the navigation and refresh cursors.
type State struct {
	// Window is nil until the first successful refresh.
	Window  *WeekWindow
	Nav     NavigationState
	Refresh RefreshState
}

// Manager is the single authoritative writer over the Store. Every
// mutation of navigation state, refresh state or the cached window goes
// through Mutate, which serializes writers and persists the whole state
// atomically so the token-rotation/cache-write race the shared store
// would otherwise allow cannot occur.
type Manager struct {
	mu    sync.Mutex
	store Store
}

// NewManager wraps a Store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Snapshot returns the current persisted state.
func (m *Manager) Snapshot() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s State
	err := m.store.Update(func(tx Tx) error {
		var err error
		s, err = loadState(tx)
		return err
	})
	return s, err
}

// Mutate loads the state, applies fn and persists the result in one
// atomic transaction. If fn returns an error nothing is written.
func (m *Manager) Mutate(fn func(s *State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Update(func(tx Tx) error {
		s, err := loadState(tx)
		if err != nil {
			return err
		}
		if err := fn(&s); err != nil {
			return err
		}
		return saveState(tx, &s)
	})
}

// Reset deletes all persisted state. Used on logout so no schedule or
// cursor survives for the next account.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Update(func(tx Tx) error {
		for _, key := range []string{
			KeyAllDaysData,
			KeyCurrentDayIndex,
			KeyCurrentWeekOffset,
			KeyIsRefreshing,
			KeyError,
			KeyRefreshRequested,
			KeyWeekNavDirection,
		} {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadState(tx Tx) (State, error) {
	var s State

	if raw, ok, err := tx.Get(KeyAllDaysData); err != nil {
		return s, err
	} else if ok && raw != "" {
		var win WeekWindow
		if err := json.Unmarshal([]byte(raw), &win); err != nil {
			return s, fmt.Errorf("decode cached window: %w", err)
		}
		s.Window = &win
	}

	var err error
	if s.Nav.CurrentDayIndex, err = getInt(tx, KeyCurrentDayIndex); err != nil {
		return s, err
	}
	if s.Nav.CurrentWeekOffset, err = getInt(tx, KeyCurrentWeekOffset); err != nil {
		return s, err
	}
	s.Nav.PendingDirection, _, err = tx.Get(KeyWeekNavDirection)
	if err != nil {
		return s, err
	}

	if raw, ok, err := tx.Get(KeyIsRefreshing); err != nil {
		return s, err
	} else if ok {
		s.Refresh.IsRefreshing = raw == "true"
	}
	s.Refresh.Error, _, err = tx.Get(KeyError)
	if err != nil {
		return s, err
	}
	if raw, ok, err := tx.Get(KeyRefreshRequested); err != nil {
		return s, err
	} else if ok && raw != "" {
		if t, perr := time.Parse(time.RFC3339, raw); perr == nil {
			s.Refresh.LastRequestedAt = t
		}
	}
	return s, nil
}

func saveState(tx Tx, s *State) error {
	if s.Window != nil {
		raw, err := json.Marshal(s.Window)
		if err != nil {
			return fmt.Errorf("encode cached window: %w", err)
		}
		if err := tx.Set(KeyAllDaysData, string(raw)); err != nil {
			return err
		}
	}
	if err := tx.Set(KeyCurrentDayIndex, strconv.Itoa(s.Nav.CurrentDayIndex)); err != nil {
		return err
	}
	if err := tx.Set(KeyCurrentWeekOffset, strconv.Itoa(s.Nav.CurrentWeekOffset)); err != nil {
		return err
	}
	if s.Nav.PendingDirection == "" {
		if err := tx.Delete(KeyWeekNavDirection); err != nil {
			return err
		}
	} else if err := tx.Set(KeyWeekNavDirection, s.Nav.PendingDirection); err != nil {
		return err
	}
	if err := tx.Set(KeyIsRefreshing, strconv.FormatBool(s.Refresh.IsRefreshing)); err != nil {
		return err
	}
	if err := tx.Set(KeyError, s.Refresh.Error); err != nil {
		return err
	}
	if s.Refresh.LastRequestedAt.IsZero() {
		return nil
	}
	return tx.Set(KeyRefreshRequested, s.Refresh.LastRequestedAt.Format(time.RFC3339))
}

func getInt(tx Tx, key string) (int, error) {
	raw, ok, err := tx.Get(key)
	if err != nil || !ok || raw == "" {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("state key %q is not an integer: %w", key, err)
	}
	return n, nil
}
