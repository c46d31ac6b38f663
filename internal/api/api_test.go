package api

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
	"github.com/solwidget/solw/pkg/sollib"
)

type fakeTokens struct {
	token string
}

func (f *fakeTokens) Token() (string, error) { return f.token, nil }
func (f *fakeTokens) SetToken(token string) error { f.token = token; return nil }
func (f *fakeTokens) DeleteToken() error { f.token = ""; return nil }

type apiFixture struct {
	api      *Api
	tokens   *fakeTokens
	state    *sollib.Manager
	pool     *server.Pool
	sconn    *server.SyncConn
	triggers int
	stops    int
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		tokens: &fakeTokens{},
		state:  sollib.NewManager(sollib.NewMemStore()),
		pool:   server.NewPool(nil),
	}
	machine := sollib.NewNavigationStateMachine(f.state)
	machine.Bind(func() { f.triggers++ })
	f.api = NewApi(nil, f.tokens, f.state, machine, "1.0.0-test", func() { f.stops++ })

	c1, c2 := net.Pipe()
	t.Cleanup(func() { c1.Close(); c2.Close() })
	f.sconn = server.NewSyncConn(c1)
	return f
}

func (f *apiFixture) seedWindow(t *testing.T) {
	t.Helper()
	if err := f.state.Mutate(func(s *sollib.State) error {
		days := make([]sollib.ScheduleDay, sollib.DaysPerWindow)
		for i := range days {
			days[i].IsFreeDay = true
		}
		s.Window = &sollib.WeekWindow{WeekStart: "2024-06-03", Days: days}
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestLoginHandler(t *testing.T) {
	f := newAPIFixture(t)

	body, _ := json.Marshal(common.LoginParams{RefreshToken: "refresh-abc"})
	utype, msg, err := f.api.loginHandler(f.sconn, f.pool, body)
	if err != nil {
		t.Fatalf("loginHandler: %v", err)
	}
	if utype != common.UPDATE_LOGIN {
		t.Errorf("utype = %q", utype)
	}
	if resp, ok := msg.(*common.LoginResponse); !ok || !resp.Ok {
		t.Errorf("msg = %+v", msg)
	}
	if f.tokens.token != "refresh-abc" {
		t.Errorf("token = %q", f.tokens.token)
	}
	if f.triggers != 1 {
		t.Errorf("login fired %d refresh triggers, want 1", f.triggers)
	}
}

func TestLoginHandlerRequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	body, _ := json.Marshal(common.LoginParams{})
	if _, _, err := f.api.loginHandler(f.sconn, f.pool, body); err == nil {
		t.Error("expected error for empty refresh_token")
	}
	if f.triggers != 0 {
		t.Error("failed login must not trigger a refresh")
	}
}

func TestLogoutHandlerClearsEverything(t *testing.T) {
	f := newAPIFixture(t)
	f.tokens.token = "refresh-abc"
	f.seedWindow(t)

	if _, _, err := f.api.logoutHandler(f.sconn, f.pool, nil); err != nil {
		t.Fatalf("logoutHandler: %v", err)
	}
	if f.tokens.token != "" {
		t.Error("token survived logout")
	}
	snap, _ := f.state.Snapshot()
	if snap.Window != nil {
		t.Error("cached window survived logout")
	}
}

func TestRefreshHandlerAttachesAndTriggers(t *testing.T) {
	f := newAPIFixture(t)

	utype, msg, err := f.api.refreshHandler(f.sconn, f.pool, nil)
	if err != nil {
		t.Fatalf("refreshHandler: %v", err)
	}
	if utype != common.UPDATE_REFRESH {
		t.Errorf("utype = %q", utype)
	}
	if f.pool.Count() != 1 {
		t.Errorf("pool Count = %d, want caller attached", f.pool.Count())
	}
	if f.triggers != 1 {
		t.Errorf("triggers = %d, want 1", f.triggers)
	}
	if resp, ok := msg.(*common.StatusResponse); !ok || !resp.IsRefreshing {
		t.Errorf("msg = %+v, want refreshing status", msg)
	}
}

func TestNavigateHandler(t *testing.T) {
	f := newAPIFixture(t)
	f.seedWindow(t)

	body, _ := json.Marshal(common.NavigateParams{Direction: "next"})
	_, msg, err := f.api.navigateHandler(f.sconn, f.pool, body)
	if err != nil {
		t.Fatalf("navigateHandler: %v", err)
	}
	resp, ok := msg.(*common.ScheduleResponse)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if resp.CurrentDayIndex != 1 {
		t.Errorf("CurrentDayIndex = %d, want 1", resp.CurrentDayIndex)
	}
}

func TestNavigateHandlerBadDirection(t *testing.T) {
	f := newAPIFixture(t)
	body, _ := json.Marshal(common.NavigateParams{Direction: "up"})
	if _, _, err := f.api.navigateHandler(f.sconn, f.pool, body); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestScheduleHandler(t *testing.T) {
	f := newAPIFixture(t)
	f.seedWindow(t)

	_, msg, err := f.api.scheduleHandler(f.sconn, f.pool, nil)
	if err != nil {
		t.Fatalf("scheduleHandler: %v", err)
	}
	resp, ok := msg.(*common.ScheduleResponse)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if resp.Window == nil || resp.Window.WeekStart != "2024-06-03" {
		t.Errorf("Window = %+v", resp.Window)
	}
}

func TestStatusHandler(t *testing.T) {
	f := newAPIFixture(t)
	f.tokens.token = "refresh-abc"
	f.seedWindow(t)

	_, msg, err := f.api.statusHandler(f.sconn, f.pool, nil)
	if err != nil {
		t.Fatalf("statusHandler: %v", err)
	}
	resp, ok := msg.(*common.StatusResponse)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if !resp.LoggedIn || !resp.HasCachedWeek || resp.IsRefreshing {
		t.Errorf("status = %+v", resp)
	}
}

func TestVersionHandler(t *testing.T) {
	f := newAPIFixture(t)

	_, msg, err := f.api.versionHandler(f.sconn, f.pool, nil)
	if err != nil {
		t.Fatalf("versionHandler: %v", err)
	}
	if resp, ok := msg.(*common.VersionResponse); !ok || resp.Version != "1.0.0-test" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestStopHandler(t *testing.T) {
	f := newAPIFixture(t)

	_, _, err := f.api.stopHandler(f.sconn, f.pool, nil)
	if err != nil {
		t.Fatalf("stopHandler: %v", err)
	}
	// stop runs in its own goroutine; nothing else to assert beyond it
	// not blocking the handler.
}
