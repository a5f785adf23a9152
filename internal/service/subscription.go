package service

import (
	"context"
	"sync"
)

// Snapshot is one delivery of a live subscription: the full task set at a
// point in time, or the error that ended the subscription.
type Snapshot struct {
	Tasks []Task
	Err   error
}

// Subscription is a cancellable sequence of snapshots.
// Deliveries arrive in the order the backend emits them.
type Subscription struct {
	ch     chan Snapshot
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewSubscription starts run in its own goroutine. run pushes snapshots
// through emit, which reports false once the subscription is closed;
// run must return promptly after that. The channel is closed when run returns.
func NewSubscription(ctx context.Context, run func(ctx context.Context, emit func(Snapshot) bool)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		ch:     make(chan Snapshot),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	emit := func(snap Snapshot) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case s.ch <- snap:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(s.done)
		defer close(s.ch)
		run(ctx, emit)
	}()
	return s
}

// Snapshots returns the delivery channel. It is closed after Close or when
// the backend stops the feed.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.ch
}

// Close cancels the subscription and waits for the feed to stop.
// Nothing is delivered after Close returns. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed once the feed has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
