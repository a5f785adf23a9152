// Package coordinator keeps the live task set for a signed-in user and
// applies task mutations against the remote store.
//
// The raw task set is written only by the subscription handler, except for
// the optimistic removal done by DeleteTask. Every mutation takes the
// caller's session explicitly; there is no ambient current user.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"taskly/internal/service"
	"taskly/internal/session"
	"taskly/internal/view"
)

// ErrDetached is reported by WaitReady when the subscription was closed
// before delivering anything.
var ErrDetached = errors.New("subscription closed")

// Handler is called after every snapshot has been applied to the cache.
// err is non-nil when the subscription failed; no further calls follow.
type Handler func(tasks []service.Task, err error)

// Coordinator applies add/edit/delete/toggle and owns the cached task set.
type Coordinator struct {
	store  service.Store
	logger *slog.Logger

	mu      sync.RWMutex
	tasks   []service.Task
	loaded  bool
	err     error
	sub     *service.Subscription
	ready   chan struct{}
	changed chan struct{}
	stopped chan struct{}
}

// New creates a coordinator over store.
func New(store service.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		store:   store,
		logger:  logger,
		ready:   make(chan struct{}),
		changed: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Attach opens the live subscription for the session's user and starts
// applying snapshots to the cache. h may be nil. Attach fails with
// ErrNotAuthenticated for an unauthenticated session.
func (c *Coordinator) Attach(ctx context.Context, s session.Session, h Handler) error {
	uid, err := s.UserID()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.sub != nil {
		c.mu.Unlock()
		return errors.New("already attached")
	}
	c.mu.Unlock()

	sub, err := c.store.Subscribe(ctx, uid)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	go c.consume(sub, h)
	return nil
}

func (c *Coordinator) consume(sub *service.Subscription, h Handler) {
	defer close(c.stopped)
	for snap := range sub.Snapshots() {
		c.mu.Lock()
		if snap.Err != nil {
			c.err = snap.Err
		} else {
			c.tasks = snap.Tasks
		}
		first := !c.loaded
		c.loaded = true
		tasks := slices.Clone(c.tasks)
		c.notifyLocked()
		c.mu.Unlock()

		if first {
			close(c.ready)
		}
		if h != nil {
			h(tasks, snap.Err)
		}
		if snap.Err != nil {
			c.logger.Warn("task subscription ended", slog.String("error", snap.Err.Error()))
			return
		}
	}

	// Closed before the first delivery.
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.loaded = true
		c.err = ErrDetached
		close(c.ready)
		c.notifyLocked()
	}
}

// notifyLocked wakes everyone waiting in WaitFor. c.mu must be held.
func (c *Coordinator) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// Detach closes the subscription and waits for the handler to return.
// The handler is not called after Detach returns. Safe to call more than
// once; it must not be called from the handler.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	sub := c.sub
	c.mu.Unlock()
	if sub != nil {
		sub.Close()
		<-c.stopped
	}
}

// Ready is closed once the first snapshot (or a subscription error) arrived.
func (c *Coordinator) Ready() <-chan struct{} {
	return c.ready
}

// WaitReady blocks until the first snapshot arrives and returns the
// subscription error, if any.
func (c *Coordinator) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// WaitFor blocks until cond holds for the cached task set, re-checking after
// every snapshot or local change.
func (c *Coordinator) WaitFor(ctx context.Context, cond func([]service.Task) bool) error {
	for {
		c.mu.RLock()
		ok := c.loaded && cond(c.tasks)
		err := c.err
		changed := c.changed
		c.mu.RUnlock()
		if ok {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Tasks returns a copy of the cached raw task set in store order.
func (c *Coordinator) Tasks() []service.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tasks)
}

// View returns the cached set derived for sel.
func (c *Coordinator) View(sel view.Selection) []service.Task {
	return view.Derive(c.Tasks(), sel)
}

// Lookup returns the cached task with id.
func (c *Coordinator) Lookup(id string) (service.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// AddTask validates f and creates the task remotely. The new task reaches
// the cache only through the subscription.
func (c *Coordinator) AddTask(ctx context.Context, s session.Session, f service.Fields) (string, error) {
	uid, err := s.UserID()
	if err != nil {
		return "", err
	}
	if err := service.ValidateFields(f); err != nil {
		return "", err
	}
	id, err := c.store.Create(ctx, uid, f)
	if err != nil {
		return "", err
	}
	c.logger.Debug("task created", slog.String("id", id))
	return id, nil
}

// EditTask validates f and overwrites the task remotely.
func (c *Coordinator) EditTask(ctx context.Context, s session.Session, id string, f service.Fields) error {
	uid, err := s.UserID()
	if err != nil {
		return err
	}
	if err := service.ValidateFields(f); err != nil {
		return err
	}
	if err := c.store.Update(ctx, uid, id, f); err != nil {
		return err
	}
	c.logger.Debug("task updated", slog.String("id", id))
	return nil
}

// DeleteTask removes a cached task remotely, then drops it from the cache
// without waiting for the subscription to confirm.
func (c *Coordinator) DeleteTask(ctx context.Context, s session.Session, id string) error {
	uid, err := s.UserID()
	if err != nil {
		return err
	}
	if _, ok := c.Lookup(id); !ok {
		return fmt.Errorf("%w: %s", service.ErrNotFound, id)
	}
	if err := c.store.Delete(ctx, uid, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.tasks = slices.DeleteFunc(slices.Clone(c.tasks), func(t service.Task) bool { return t.ID == id })
	c.notifyLocked()
	c.mu.Unlock()

	c.logger.Debug("task deleted", slog.String("id", id))
	return nil
}

// ToggleComplete flips isCompleted with a merge write. The cache is not
// touched; the flip becomes visible with the next snapshot. It returns the
// requested completion state.
func (c *Coordinator) ToggleComplete(ctx context.Context, s session.Session, id string) (bool, error) {
	uid, err := s.UserID()
	if err != nil {
		return false, err
	}
	t, ok := c.Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", service.ErrNotFound, id)
	}
	done := !t.IsCompleted
	if err := c.store.MergeFields(ctx, uid, id, service.Patch{IsCompleted: &done}); err != nil {
		return false, err
	}
	c.logger.Debug("task toggled", slog.String("id", id), slog.Bool("completed", done))
	return done, nil
}

// Profile projects the principal and the cached task counts.
func (c *Coordinator) Profile(s session.Session) (service.Profile, error) {
	p, ok := s.Principal()
	if !ok {
		return service.Profile{}, service.ErrNotAuthenticated
	}
	return view.Summarize(p, c.Tasks()), nil
}
