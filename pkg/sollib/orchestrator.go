package sollib

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/solwidget/solw/pkg/logger"
)

// DefaultRetryDelay is how long the orchestrator waits before retrying
// a refresh that found no network.
const DefaultRetryDelay = 5 * time.Second

// TokenStore persists the refresh token across runs. The stored value
// may change as a side effect of a successful token exchange even when
// the refresh later fails downstream.
type TokenStore interface {
	// Token returns the stored refresh token, or an empty string when
	// the user has never logged in.
	Token() (string, error)

	// SetToken overwrites the stored refresh token.
	SetToken(token string) error
}

// ConnectivityChecker reports whether the network is usable right now.
type ConnectivityChecker func(ctx context.Context) bool

// DialConnectivityChecker checks reachability of the API host with a
// short TCP dial.
func DialConnectivityChecker(baseURL string, timeout time.Duration) ConnectivityChecker {
	host := "aplikace.skolaonline.cz:443"
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Host, "443")
		}
	}
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", host)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}

// OrchestratorOpts carries the injectable dependencies of the
// orchestrator. Zero fields get production defaults.
type OrchestratorOpts struct {
	// Connectivity gates every refresh attempt. Defaults to a TCP
	// dial against the API host.
	Connectivity ConnectivityChecker

	// ScheduleRetry arranges for fn to run after delay. Defaults to
	// time.AfterFunc; tests inject their own to simulate time.
	ScheduleRetry func(delay time.Duration, fn func())

	// RetryDelay overrides DefaultRetryDelay.
	RetryDelay time.Duration

	// Notify is called after every state change a presentation layer
	// should re-render for.
	Notify func()

	// Now overrides the clock used for week-window math.
	Now func() time.Time
}

// Orchestrator drives one end-to-end refresh: connectivity check, token
// exchange, identity fetch, timetable fetch, normalization and the
// atomic state write. At most one pipeline runs at a time; triggers
// arriving mid-run coalesce into a single pending rerun (latest
// request wins) instead of racing on the token and the cache.
type Orchestrator struct {
	log     logger.Logger
	client  *Client
	tokens  TokenStore
	state   *Manager
	machine *NavigationStateMachine

	connectivity  ConnectivityChecker
	scheduleRetry func(time.Duration, func())
	retryDelay    time.Duration
	notify        func()
	now           func() time.Time

	mu       sync.Mutex
	inflight bool
	pending  bool
}

// NewOrchestrator wires the refresh pipeline and binds itself as the
// machine's trigger.
func NewOrchestrator(l logger.Logger, client *Client, tokens TokenStore, state *Manager, machine *NavigationStateMachine, opts *OrchestratorOpts) *Orchestrator {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if opts == nil {
		opts = &OrchestratorOpts{}
	}
	o := &Orchestrator{
		log:           l,
		client:        client,
		tokens:        tokens,
		state:         state,
		machine:       machine,
		connectivity:  opts.Connectivity,
		scheduleRetry: opts.ScheduleRetry,
		retryDelay:    opts.RetryDelay,
		notify:        opts.Notify,
		now:           opts.Now,
	}
	if o.connectivity == nil {
		o.connectivity = DialConnectivityChecker(client.baseURL, 3*time.Second)
	}
	if o.scheduleRetry == nil {
		o.scheduleRetry = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if o.retryDelay <= 0 {
		o.retryDelay = DefaultRetryDelay
	}
	if o.notify == nil {
		o.notify = func() {}
	}
	if o.now == nil {
		o.now = time.Now
	}
	machine.Bind(o.TriggerRefresh)
	return o
}

// TriggerRefresh starts a refresh run, or marks a rerun when one is
// already in flight. It never blocks.
func (o *Orchestrator) TriggerRefresh() {
	o.mu.Lock()
	if o.inflight {
		o.pending = true
		o.mu.Unlock()
		return
	}
	o.inflight = true
	o.mu.Unlock()
	go o.loop()
}

func (o *Orchestrator) loop() {
	for {
		o.runOnce(context.Background())
		o.mu.Lock()
		if !o.pending {
			o.inflight = false
			o.mu.Unlock()
			return
		}
		o.pending = false
		o.mu.Unlock()
	}
}

func (o *Orchestrator) runOnce(ctx context.Context) {
	if !o.connectivity(ctx) {
		o.log.Warning("refresh: no connectivity, retrying in %s", o.retryDelay)
		// Not terminal: isRefreshing stays true, but the banner tells
		// the user why nothing is happening.
		if err := o.state.Mutate(func(s *State) error {
			s.Refresh.Error = msgNoConnectivity
			return nil
		}); err != nil {
			o.log.Error("refresh: persist connectivity state: %v", err)
		}
		o.notify()
		o.scheduleRetry(o.retryDelay, o.TriggerRefresh)
		return
	}

	if err := o.refresh(ctx); err != nil {
		o.log.Error("refresh failed: %v", err)
		if applyErr := o.machine.ApplyRefreshFailure(err); applyErr != nil {
			o.log.Error("refresh: persist failure state: %v", applyErr)
		}
	}
	o.notify()
}

// refresh runs the authenticate-fetch-normalize sequence, short-
// circuiting on the first failure.
func (o *Orchestrator) refresh(ctx context.Context) error {
	refreshToken, err := o.tokens.Token()
	if err != nil {
		return err
	}
	if refreshToken == "" {
		return ErrNotAuthenticated
	}

	snap, err := o.state.Snapshot()
	if err != nil {
		return err
	}
	targetOffset := snap.Nav.CurrentWeekOffset
	if dir, ok := ParseDirection(snap.Nav.PendingDirection); ok {
		targetOffset += int(dir)
	}
	weekStart := WeekStart(o.now(), targetOffset)

	tokens, err := o.client.ExchangeToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if tokens.RefreshToken != "" && tokens.RefreshToken != refreshToken {
		// Rotate before any downstream call; a later failure must not
		// lose the only valid refresh token.
		if err := o.tokens.SetToken(tokens.RefreshToken); err != nil {
			return err
		}
	}

	identity, err := o.client.FetchIdentity(ctx, tokens.AccessToken)
	if err != nil {
		return err
	}

	doc, err := o.client.FetchTimetable(ctx, tokens.AccessToken, identity, weekStart)
	if err != nil {
		return err
	}

	win := Normalize(doc, weekStart)
	o.log.Info("refresh: fetched week of %s (%d days)", win.WeekStart, len(win.Days))
	return o.machine.ApplyRefreshSuccess(&win, targetOffset)
}
