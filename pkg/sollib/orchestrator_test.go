package sollib

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeTokens struct {
	mu    sync.Mutex
	token string
	sets  []string
}

func (f *fakeTokens) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.sets = append(f.sets, token)
	return nil
}

type orchFixture struct {
	tokens  *fakeTokens
	state   *Manager
	machine *NavigationStateMachine
	orch    *Orchestrator

	notified chan struct{}

	mu      sync.Mutex
	retries []time.Duration
}

func newOrchFixture(t *testing.T, handler http.Handler, opts *OrchestratorOpts) *orchFixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := &orchFixture{
		tokens:   &fakeTokens{token: "refresh-0"},
		state:    NewManager(NewMemStore()),
		notified: make(chan struct{}, 16),
	}
	f.machine = NewNavigationStateMachine(f.state)

	if opts == nil {
		opts = &OrchestratorOpts{}
	}
	if opts.Connectivity == nil {
		opts.Connectivity = func(ctx context.Context) bool { return true }
	}
	if opts.ScheduleRetry == nil {
		opts.ScheduleRetry = func(d time.Duration, fn func()) {
			f.mu.Lock()
			f.retries = append(f.retries, d)
			f.mu.Unlock()
		}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time {
			return time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
		}
	}
	opts.Notify = func() { f.notified <- struct{}{} }

	f.orch = NewOrchestrator(nil, NewClient(srv.Client(), srv.URL), f.tokens, f.state, f.machine, opts)
	return f
}

func (f *orchFixture) waitNotify(t *testing.T) {
	t.Helper()
	select {
	case <-f.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a refresh run to finish")
	}
}

func (f *orchFixture) snapshot(t *testing.T) State {
	t.Helper()
	s, err := f.state.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return s
}

// solapiHandler serves a minimal happy-path SolAPI.
func solapiHandler(rotatedRefresh string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"access_token":"access-1","refresh_token":%q}`, rotatedRefresh)
	})
	mux.HandleFunc("/v1/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"personID":"p-1","schoolYearId":"y-1"}`)
	})
	mux.HandleFunc("/v1/timeTable", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"days":[{"date":"2024-06-03T00:00:00","schedules":[
			{"beginTime":"2024-06-03T08:00:00","endTime":"2024-06-03T08:45:00",
			 "lessonIdFrom":"1","lessonIdTo":"1","subject":{"name":"Matematika"}}
		]}]}`)
	})
	return mux
}

func TestRefreshSuccess(t *testing.T) {
	f := newOrchFixture(t, solapiHandler("refresh-1"), nil)

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	f.waitNotify(t)

	s := f.snapshot(t)
	if s.Window == nil {
		t.Fatal("no window cached after successful refresh")
	}
	if s.Window.WeekStart != "2024-06-03" {
		t.Errorf("WeekStart = %q, want 2024-06-03", s.Window.WeekStart)
	}
	if got := s.Window.Days[0].Lessons; len(got) != 1 || got[0].Subject != "Matematika" {
		t.Errorf("monday lessons = %+v", got)
	}
	if s.Refresh.IsRefreshing || s.Refresh.Error != "" {
		t.Errorf("Refresh = %+v, want idle and clear", s.Refresh)
	}
	if f.tokens.token != "refresh-1" {
		t.Errorf("token = %q, want rotated refresh-1", f.tokens.token)
	}
}

func TestRefreshNotAuthenticated(t *testing.T) {
	f := newOrchFixture(t, solapiHandler("x"), nil)
	f.tokens.token = ""

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	f.waitNotify(t)

	s := f.snapshot(t)
	if s.Refresh.Error != "Nepřihlášen" {
		t.Errorf("Error = %q, want Nepřihlášen", s.Refresh.Error)
	}
	if s.Refresh.IsRefreshing {
		t.Error("IsRefreshing = true after terminal failure")
	}
	if s.Window != nil {
		t.Error("window appeared out of nowhere")
	}
}

func TestRefreshRotatesTokenBeforeDownstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"access-1","refresh_token":"refresh-1"}`)
	})
	mux.HandleFunc("/v1/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := newOrchFixture(t, mux, nil)

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	f.waitNotify(t)

	if f.tokens.token != "refresh-1" {
		t.Errorf("token = %q, rotation must happen before downstream calls", f.tokens.token)
	}
	s := f.snapshot(t)
	if s.Refresh.Error != "Chyba rozvrhu" {
		t.Errorf("Error = %q, want Chyba rozvrhu", s.Refresh.Error)
	}
}

func TestRefreshFailureKeepsCachedWindow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	f := newOrchFixture(t, mux, nil)
	if err := f.state.Mutate(func(s *State) error {
		s.Window = testWindow("2024-06-03")
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	f.waitNotify(t)

	s := f.snapshot(t)
	if s.Window == nil || s.Window.WeekStart != "2024-06-03" {
		t.Error("cached window lost on refresh failure")
	}
	if s.Refresh.Error != "Chyba přihlášení" {
		t.Errorf("Error = %q, want Chyba přihlášení", s.Refresh.Error)
	}
}

func TestRefreshNavigatePreviousWeek(t *testing.T) {
	var gotDateFrom string
	mux := http.NewServeMux()
	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"access-1","refresh_token":"refresh-0"}`)
	})
	mux.HandleFunc("/v1/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"personID":"p-1","schoolYearId":"y-1"}`)
	})
	mux.HandleFunc("/v1/timeTable", func(w http.ResponseWriter, r *http.Request) {
		gotDateFrom = r.URL.Query().Get("DateFrom")
		fmt.Fprint(w, `{"days":[]}`)
	})
	f := newOrchFixture(t, mux, nil)
	if err := f.state.Mutate(func(s *State) error {
		s.Window = testWindow("2024-06-03")
		s.Nav.CurrentDayIndex = 0
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.machine.Navigate(DirectionPrevious); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	f.waitNotify(t)

	if gotDateFrom != "2024-05-27T00:00:00.000" {
		t.Errorf("DateFrom = %q, want previous week monday", gotDateFrom)
	}
	s := f.snapshot(t)
	if s.Nav.CurrentWeekOffset != -1 {
		t.Errorf("CurrentWeekOffset = %d, want -1", s.Nav.CurrentWeekOffset)
	}
	if s.Nav.CurrentDayIndex != DaysPerWindow-1 {
		t.Errorf("CurrentDayIndex = %d, want friday", s.Nav.CurrentDayIndex)
	}
}

func TestRefreshNoConnectivitySchedulesRetry(t *testing.T) {
	f := newOrchFixture(t, solapiHandler("x"), &OrchestratorOpts{
		Connectivity: func(ctx context.Context) bool { return false },
		RetryDelay:   42 * time.Millisecond,
	})

	if err := f.machine.RequestRefresh(); err != nil {
		t.Fatalf("RequestRefresh: %v", err)
	}
	f.waitNotify(t)

	s := f.snapshot(t)
	if s.Refresh.Error != "Bez připojení" {
		t.Errorf("Error = %q, want Bez připojení", s.Refresh.Error)
	}
	if !s.Refresh.IsRefreshing {
		t.Error("IsRefreshing = false, offline retry must stay in progress")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.retries) != 1 || f.retries[0] != 42*time.Millisecond {
		t.Errorf("retries = %v, want one at 42ms", f.retries)
	}
}

func TestTriggerRefreshCoalesces(t *testing.T) {
	var (
		mu   sync.Mutex
		runs int
	)
	gate := make(chan struct{})
	f := newOrchFixture(t, solapiHandler("refresh-0"), &OrchestratorOpts{
		Connectivity: func(ctx context.Context) bool {
			mu.Lock()
			runs++
			first := runs == 1
			mu.Unlock()
			if first {
				<-gate
			}
			return true
		},
	})

	f.orch.TriggerRefresh()
	// These arrive while the first run is blocked and must fold into a
	// single rerun.
	f.orch.TriggerRefresh()
	f.orch.TriggerRefresh()
	f.orch.TriggerRefresh()
	close(gate)

	f.waitNotify(t)
	f.waitNotify(t)

	select {
	case <-f.notified:
		t.Error("more than two runs for four triggers")
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}
