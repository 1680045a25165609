package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/metrics"
)

var ErrQueueFull = errors.New("notification queue full")

// FailureFunc receives every event that could not be delivered.
type FailureFunc func(ev Event, err error)

func LogFailure(ev Event, err error) {
	reason := "notifier"
	if errors.Is(err, ErrQueueFull) {
		reason = "queue_full"
	}
	metrics.NotificationsFailed.WithLabelValues(reason).Inc()
	slog.Error("notification not delivered",
		"type", ev.Type, "recipient", ev.RecipientID, "project", ev.ProjectID, "err", err)
}

type Dispatcher struct {
	notifiers []Notifier
	queue     chan Event
	onFailure FailureFunc
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(buffer int, notifiers ...Notifier) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		notifiers: notifiers,
		queue:     make(chan Event, buffer),
		onFailure: LogFailure,
		timeout:   5 * time.Second,
	}
}

func (d *Dispatcher) OnFailure(f FailureFunc) {
	d.onFailure = f
}

// Start launches the delivery worker. It must be called once before Publish.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for ev := range d.queue {
			d.deliver(ev)
		}
	}()
}

func (d *Dispatcher) deliver(ev Event) {
	for _, n := range d.notifiers {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := n.Notify(ctx, ev)
		cancel()
		if err != nil {
			d.onFailure(ev, err)
		}
	}
}

// Publish enqueues ev without blocking.
func (d *Dispatcher) Publish(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.onFailure(ev, errors.New("dispatcher closed"))
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.onFailure(ev, ErrQueueFull)
	}
}

// Close stops accepting events and waits until the queue has drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}
