package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error

	mu     sync.Mutex
	events []notification.Event
	block  chan struct{}
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, event notification.Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) received() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Event(nil), s.events...)
}

func TestDispatcher_DeliversToAllSinks(t *testing.T) {
	ok := &recordingSink{name: "ok"}
	failing := &recordingSink{name: "broken", err: errors.New("smtp down")}
	m := metrics.New(prometheus.NewRegistry())

	d := NewDispatcher([]notification.Sink{ok, failing}, m, Config{WorkerCount: 1})
	d.Dispatch(context.Background(), notification.RequestResolved{RequestID: "r1", Status: "APPROVED"})

	require.NoError(t, d.Stop(context.Background()))

	assert.Len(t, ok.received(), 1)
	assert.Len(t, failing.received(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("ok", "delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("broken", "failed")))
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{name: "slow", block: make(chan struct{})}
	m := metrics.New(prometheus.NewRegistry())

	d := NewDispatcher([]notification.Sink{sink}, m, Config{WorkerCount: 1, QueueSize: 1})

	// First event occupies the worker, second fills the queue.
	d.Dispatch(context.Background(), notification.RequestResolved{RequestID: "r1"})
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	d.Dispatch(context.Background(), notification.RequestResolved{RequestID: "r2"})
	d.Dispatch(context.Background(), notification.RequestResolved{RequestID: "r3"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("queue", "dropped")))

	close(sink.block)
	require.NoError(t, d.Stop(context.Background()))
	assert.Len(t, sink.received(), 2)
}

func TestDispatcher_DropsAfterStop(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	d := NewDispatcher([]notification.Sink{sink}, nil, Config{})
	require.NoError(t, d.Stop(context.Background()))

	d.Dispatch(context.Background(), notification.LeaveResolved{LeaveID: "l1"})
	assert.Empty(t, sink.received())
}

func TestDispatcher_StopRacingDispatchAccountsForEveryEvent(t *testing.T) {
	for i := 0; i < 20; i++ {
		sink := &recordingSink{name: "ok"}
		m := metrics.New(prometheus.NewRegistry())
		d := NewDispatcher([]notification.Sink{sink}, m, Config{WorkerCount: 2})

		const n = 50
		var wg sync.WaitGroup
		for j := 0; j < n; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.Dispatch(context.Background(), notification.LeaveResolved{LeaveID: "l1"})
			}()
		}
		require.NoError(t, d.Stop(context.Background()))
		wg.Wait()

		delivered := len(sink.received())
		dropped := int(testutil.ToFloat64(m.Notifications.WithLabelValues("queue", "dropped")))
		assert.Equal(t, n, delivered+dropped, "iteration %d", i)
	}
}

type fakePublisher struct {
	eventType string
	data      []byte
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, data []byte) (string, error) {
	p.eventType, p.data = eventType, data
	return "msg-1", nil
}

func (p *fakePublisher) Close() error { return nil }

func TestPubSubSink_OmitsTemporaryPassword(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewPubSubSink(pub)

	err := sink.Deliver(context.Background(), notification.CredentialsIssued{
		PersonalEmail:     "asha.personal@example.com",
		EmployeeID:        "PRAGEMP001",
		TemporaryPassword: "secret12",
	})
	require.NoError(t, err)
	assert.Equal(t, string(notification.TypeCredentialsIssued), pub.eventType)
	assert.NotContains(t, string(pub.data), "secret12")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.data, &decoded))
	assert.Equal(t, "PRAGEMP001", decoded["employee_id"])
}
