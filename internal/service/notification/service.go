package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount     int           // default: 2
	QueueSize       int           // default: 1000
	DeliveryTimeout time.Duration // default: 30 seconds
}

// Dispatcher delivers events to every sink from a bounded queue drained by
// background workers. Delivery failures are logged and counted only.
type Dispatcher struct {
	sinks   []notification.Sink
	metrics *metrics.Metrics
	config  Config

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	// mu orders enqueues against Stop so no event lands after the workers exit.
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a dispatcher and starts its background workers
func NewDispatcher(sinks []notification.Sink, m *metrics.Metrics, cfg Config) *Dispatcher {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		sinks:   sinks,
		metrics: m,
		config:  cfg,
		queue:   make(chan notification.Event, cfg.QueueSize),
		stopCh:  make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	slog.Info("notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "sinks", names)

	return d
}

// Dispatch implements notification.Dispatcher. It never blocks: when the
// queue is full or the dispatcher is stopped the event is dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, event notification.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		slog.Warn("notification dispatcher stopped, dropping event", "event_type", event.Type())
		d.metrics.IncNotification("queue", "dropped")
		return
	}

	select {
	case d.queue <- event:
	default:
		slog.Warn("notification queue full, dropping event", "event_type", event.Type(), "error", notification.ErrQueueFull)
		d.metrics.IncNotification("queue", "dropped")
	}
}

// worker is the background worker that processes notification queue
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.deliver(id, event)
		case <-d.stopCh:
			// Drain what is already queued
			for {
				select {
				case event := <-d.queue:
					d.deliver(id, event)
				default:
					return
				}
			}
		}
	}
}

// deliver fans the event out to all sinks concurrently. One sink failing
// does not cancel the others.
func (d *Dispatcher) deliver(workerID int, event notification.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range d.sinks {
		sink := sink
		g.Go(func() error {
			if err := sink.Deliver(ctx, event); err != nil {
				slog.Error("notification delivery failed",
					"worker", workerID,
					"sink", sink.Name(),
					"event_type", event.Type(),
					"error", err,
				)
				d.metrics.IncNotification(sink.Name(), "failed")
				return err
			}
			d.metrics.IncNotification(sink.Name(), "delivered")
			return nil
		})
	}
	_ = g.Wait()
}

// Stop stops accepting events and waits for queued events to be delivered
// or for ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.stopCh)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
