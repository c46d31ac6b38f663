package server

import (
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/solwidget/solw/pkg/logger"
)

// newPushServer starts a jrpc2 server over an in-memory pipe with push
// enabled and returns it with a client that records notifications.
func newPushServer(t *testing.T) (*jrpc2.Server, *notificationRecorder) {
	t.Helper()
	srvCh, cliCh := channel.Direct()
	srv := jrpc2.NewServer(handler.Map{}, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(srvCh)

	rec := &notificationRecorder{}
	cli := jrpc2.NewClient(cliCh, &jrpc2.ClientOptions{
		OnNotify: rec.record,
	})
	t.Cleanup(func() {
		cli.Close()
		srv.Stop()
	})
	return srv, rec
}

type notificationRecorder struct {
	mu      sync.Mutex
	methods []string
}

func (r *notificationRecorder) record(req *jrpc2.Request) {
	r.mu.Lock()
	r.methods = append(r.methods, req.Method())
	r.mu.Unlock()
}

func (r *notificationRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.methods)
}

func TestRPCNotifierRegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(nil)
	srv, _ := newPushServer(t)

	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("Count = %d, want 1", n.Count())
	}
	// Double registration is idempotent.
	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("Count = %d after double register, want 1", n.Count())
	}
	n.Unregister(srv)
	if n.Count() != 0 {
		t.Fatalf("Count = %d after unregister, want 0", n.Count())
	}
	// Unregistering an unknown server is a no-op.
	n.Unregister(srv)
}

func TestRPCNotifierBroadcastNoServers(t *testing.T) {
	n := NewRPCNotifier(nil)
	// Must not panic or block.
	n.Broadcast("schedule.updated", &ScheduleUpdatedNotification{})
}

func TestRPCNotifierBroadcast(t *testing.T) {
	n := NewRPCNotifier(logger.NewMockLogger())
	srv1, rec1 := newPushServer(t)
	srv2, rec2 := newPushServer(t)
	n.Register(srv1)
	n.Register(srv2)

	n.Broadcast("schedule.updated", &ScheduleUpdatedNotification{
		IsRefreshing: false,
		WeekStart:    "2024-06-03",
	})

	waitForCount(t, rec1, 1)
	waitForCount(t, rec2, 1)
}

func TestRPCNotifierBroadcastDropsDeadServers(t *testing.T) {
	n := NewRPCNotifier(logger.NewMockLogger())
	srv, _ := newPushServer(t)
	n.Register(srv)

	srv.Stop()
	n.Broadcast("schedule.updated", &ScheduleUpdatedNotification{})

	if n.Count() != 0 {
		t.Fatalf("Count = %d after broadcast to stopped server, want 0", n.Count())
	}
}

func TestRPCNotifierConcurrentAccess(t *testing.T) {
	n := NewRPCNotifier(nil)
	srv, _ := newPushServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			n.Register(srv)
		}()
		go func() {
			defer wg.Done()
			n.Broadcast("schedule.updated", nil)
		}()
	}
	wg.Wait()
}

// waitForCount polls until the recorder has seen want notifications.
func waitForCount(t *testing.T, rec *notificationRecorder, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("saw %d notifications, want %d", rec.count(), want)
}
