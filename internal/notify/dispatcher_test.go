package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failures struct {
	mu   sync.Mutex
	errs []error
}

func (f *failures) record(_ Event, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *failures) list() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errs...)
}

func TestDispatcherDeliversToEveryNotifier(t *testing.T) {
	var mu sync.Mutex
	var got []string
	record := func(name string) Notifier {
		return NotifierFunc(func(_ context.Context, ev Event) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name+":"+ev.ProjectTitle)
			return nil
		})
	}

	d := NewDispatcher(4, record("redis"), record("hub"))
	d.Start()
	d.Publish(Event{Type: EventApplicationSubmitted, ProjectTitle: "Logo"})
	d.Close()

	assert.Equal(t, []string{"redis:Logo", "hub:Logo"}, got)
}

func TestDispatcherReportsFailuresWithoutStopping(t *testing.T) {
	boom := errors.New("smtp down")
	var delivered int
	f := &failures{}

	d := NewDispatcher(4,
		NotifierFunc(func(context.Context, Event) error { return boom }),
		NotifierFunc(func(context.Context, Event) error { delivered++; return nil }),
	)
	d.OnFailure(f.record)
	d.Start()
	d.Publish(Event{RecipientID: uuid.New()})
	d.Publish(Event{RecipientID: uuid.New()})
	d.Close()

	assert.Equal(t, 2, delivered)
	errs := f.list()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], boom)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	f := &failures{}
	d := NewDispatcher(1)
	d.OnFailure(f.record)

	// no worker yet, so the second event cannot be queued
	d.Publish(Event{})
	d.Publish(Event{})

	errs := f.list()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrQueueFull)

	d.Start()
	d.Close()
}

func TestPublishAfterClose(t *testing.T) {
	f := &failures{}
	d := NewDispatcher(1)
	d.OnFailure(f.record)
	d.Start()
	d.Close()
	d.Close()

	d.Publish(Event{})
	assert.Len(t, f.list(), 1)
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("7f1c3f8e-1d2a-4a57-9a59-0d8f0c1b2e3f")
	assert.Equal(t, "notifications:7f1c3f8e-1d2a-4a57-9a59-0d8f0c1b2e3f", Channel(id))
}
