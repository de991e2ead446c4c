package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/homefix/marketplace/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.AccountEvent
	done   chan struct{}
	want   int
	err    error
}

func (s *recordingService) Process(_ context.Context, e domain.AccountEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if len(s.events) == s.want {
		close(s.done)
	}
	return s.err
}

func TestDispatcher_PreservesPerAccountOrder(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 3}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(domain.AccountEvent{Type: domain.EventCustomerRegistered, Email: "a@example.com"})
	d.Enqueue(domain.AccountEvent{Type: domain.EventLoginFailed, Email: "A@example.com"})
	d.Enqueue(domain.AccountEvent{Type: domain.EventLoginSucceeded, Email: "a@example.com"})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not processed in time")
	}
	cancel()
	d.Wait()

	want := []domain.AccountEventType{domain.EventCustomerRegistered, domain.EventLoginFailed, domain.EventLoginSucceeded}
	for i, e := range svc.events {
		if e.Type != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], e.Type)
		}
	}
}

func TestDispatcher_ServiceErrorDoesNotStopWorker(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 2, err: errors.New("boom")}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.AccountEvent{Type: domain.EventLoginFailed, Email: "x@example.com"})
	d.Enqueue(domain.AccountEvent{Type: domain.EventLoginFailed, Email: "x@example.com"})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker stopped after error")
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingService{done: make(chan struct{}), want: -1}, zerolog.Nop())

	// Not started: the single channel fills and further events are dropped.
	for i := 0; i < channelBuffer+10; i++ {
		d.Enqueue(domain.AccountEvent{Type: domain.EventLoginFailed, Email: "x@example.com"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected %d queued events, got %d", channelBuffer, got)
	}
}
