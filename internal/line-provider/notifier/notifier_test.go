package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// subscriberRecorder registra as notificações recebidas em /event-update.
type subscriberRecorder struct {
	mu       sync.Mutex
	received []events.EventStateChanged
	srv      *httptest.Server
}

func newSubscriberRecorder(t *testing.T) *subscriberRecorder {
	t.Helper()
	rec := &subscriberRecorder{}
	rec.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event-update" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var ev events.EventStateChanged
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("decode notification: %v", err)
		}
		rec.mu.Lock()
		rec.received = append(rec.received, ev)
		rec.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(rec.srv.Close)
	return rec
}

func (r *subscriberRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func TestRegister_Idempotent(t *testing.T) {
	n := New(zap.NewNop(), time.Second)
	n.Register("http://a")
	n.Register("http://a")
	n.Register("http://b")

	if got := n.Subscribers(); len(got) != 2 {
		t.Errorf("expected 2 subscribers, got %v", got)
	}
}

func TestBroadcast_DeliversToAllSubscribers(t *testing.T) {
	s1 := newSubscriberRecorder(t)
	s2 := newSubscriberRecorder(t)

	n := New(zap.NewNop(), time.Second)
	n.Register(s1.srv.URL)
	n.Register(s2.srv.URL)

	n.Broadcast(context.Background(), events.EventStateChanged{
		EventID:  "e1",
		NewState: events.StateFinishedWin,
	})

	for _, s := range []*subscriberRecorder{s1, s2} {
		if s.count() != 1 {
			t.Fatalf("expected 1 notification, got %d", s.count())
		}
		if s.received[0].EventID != "e1" || s.received[0].NewState != events.StateFinishedWin {
			t.Errorf("unexpected payload: %+v", s.received[0])
		}
	}
}

func TestBroadcast_IsolatesFailures(t *testing.T) {
	good := newSubscriberRecorder(t)

	// assinante morto: servidor fechado antes do broadcast
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	var delivered, failed atomic.Int32
	n := New(zap.NewNop(), time.Second)
	n.OnDelivered = func() { delivered.Add(1) }
	n.OnFailed = func() { failed.Add(1) }
	n.Register(deadURL)
	n.Register(good.srv.URL)

	n.Broadcast(context.Background(), events.EventStateChanged{
		EventID:  "e1",
		NewState: events.StateFinishedLose,
	})

	if good.count() != 1 {
		t.Errorf("healthy subscriber not notified: got %d", good.count())
	}
	if delivered.Load() != 1 || failed.Load() != 1 {
		t.Errorf("expected delivered=1 failed=1, got delivered=%d failed=%d", delivered.Load(), failed.Load())
	}
}

func TestBroadcast_NonSuccessResponseCountsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var failed atomic.Int32
	n := New(zap.NewNop(), time.Second)
	n.OnFailed = func() { failed.Add(1) }
	n.Register(srv.URL)

	n.Broadcast(context.Background(), events.EventStateChanged{EventID: "e1", NewState: events.StateFinishedWin})

	if failed.Load() != 1 {
		t.Errorf("expected 1 failure, got %d", failed.Load())
	}
}
