// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"taskly/internal/service"
)

// FakeStore is an in-memory implementation of service.Store for testing.
// Every write pushes a fresh snapshot to the user's subscribers unless
// Manual is set, in which case snapshots go out only on Push.
type FakeStore struct {
	mu       sync.Mutex
	tasks    map[string][]service.Task // userID -> tasks
	profiles map[string]service.UserRecord
	subs     map[string][]*fakeFeed
	calls    []string

	// Manual holds snapshots back until Push is called.
	Manual bool

	// Error injection for testing
	SubscribeErr   error
	CreateErr      error
	UpdateErr      error
	MergeErr       error
	DeleteErr      error
	SaveProfileErr error
}

type fakeFeed struct {
	wake chan struct{}
	fail chan error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks:    make(map[string][]service.Task),
		profiles: make(map[string]service.UserRecord),
		subs:     make(map[string][]*fakeFeed),
	}
}

// Seed adds tasks for a user without recording a call. Tasks without an
// ID get a generated one.
func (f *FakeStore) Seed(userID string, tasks ...service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		f.tasks[userID] = append(f.tasks[userID], t)
	}
}

// Stored returns the user's stored tasks in insertion order.
func (f *FakeStore) Stored(userID string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.tasks[userID])
}

// Profile returns the saved profile for a user.
func (f *FakeStore) Profile(userID string) (service.UserRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.profiles[userID]
	return rec, ok
}

// Calls returns the remote calls made so far, e.g. "create", "delete:t1".
func (f *FakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Push delivers the current snapshot to the user's subscribers.
func (f *FakeStore) Push(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wakeLocked(userID)
}

// Fail ends every subscription of the user with err.
func (f *FakeStore) Fail(userID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, feed := range f.subs[userID] {
		select {
		case feed.fail <- err:
		default:
		}
	}
}

func (f *FakeStore) wakeLocked(userID string) {
	for _, feed := range f.subs[userID] {
		select {
		case feed.wake <- struct{}{}:
		default:
		}
	}
}

func (f *FakeStore) changedLocked(userID string) {
	if !f.Manual {
		f.wakeLocked(userID)
	}
}

func (f *FakeStore) snapshot(userID string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := slices.Clone(f.tasks[userID])
	slices.SortStableFunc(tasks, func(a, b service.Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return tasks
}

// Subscribe implements service.Store.
func (f *FakeStore) Subscribe(ctx context.Context, userID string) (*service.Subscription, error) {
	if f.SubscribeErr != nil {
		return nil, f.SubscribeErr
	}
	feed := &fakeFeed{wake: make(chan struct{}, 1), fail: make(chan error, 1)}

	f.mu.Lock()
	f.calls = append(f.calls, "subscribe")
	f.subs[userID] = append(f.subs[userID], feed)
	f.mu.Unlock()

	return service.NewSubscription(ctx, func(ctx context.Context, emit func(service.Snapshot) bool) {
		defer f.unsubscribe(userID, feed)
		if !emit(service.Snapshot{Tasks: f.snapshot(userID)}) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-feed.fail:
				emit(service.Snapshot{Err: err})
				return
			case <-feed.wake:
				if !emit(service.Snapshot{Tasks: f.snapshot(userID)}) {
					return
				}
			}
		}
	}), nil
}

func (f *FakeStore) unsubscribe(userID string, feed *fakeFeed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[userID] = slices.DeleteFunc(f.subs[userID], func(s *fakeFeed) bool { return s == feed })
}

// Subscribers returns the number of open subscriptions for a user.
func (f *FakeStore) Subscribers(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[userID])
}

// Create implements service.Store.
func (f *FakeStore) Create(ctx context.Context, userID string, fields service.Fields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	id := uuid.NewString()
	f.tasks[userID] = append(f.tasks[userID], taskFrom(id, fields))
	f.changedLocked(userID)
	return id, nil
}

// Update implements service.Store.
func (f *FakeStore) Update(ctx context.Context, userID, id string, fields service.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update:"+id)
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	i := f.indexLocked(userID, id)
	if i < 0 {
		f.tasks[userID] = append(f.tasks[userID], taskFrom(id, fields))
	} else {
		f.tasks[userID][i] = taskFrom(id, fields)
	}
	f.changedLocked(userID)
	return nil
}

// MergeFields implements service.Store.
func (f *FakeStore) MergeFields(ctx context.Context, userID, id string, p service.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "merge:"+id)
	if f.MergeErr != nil {
		return f.MergeErr
	}
	i := f.indexLocked(userID, id)
	if i < 0 {
		f.tasks[userID] = append(f.tasks[userID], taskFrom(id, p.Apply(service.Fields{})))
	} else {
		t := f.tasks[userID][i]
		f.tasks[userID][i] = taskFrom(id, p.Apply(t.Fields()))
	}
	f.changedLocked(userID)
	return nil
}

// Delete implements service.Store.
func (f *FakeStore) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if i := f.indexLocked(userID, id); i >= 0 {
		f.tasks[userID] = slices.Delete(f.tasks[userID], i, i+1)
	}
	f.changedLocked(userID)
	return nil
}

// SaveProfile implements service.Store.
func (f *FakeStore) SaveProfile(ctx context.Context, userID string, rec service.UserRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "profile")
	if f.SaveProfileErr != nil {
		return f.SaveProfileErr
	}
	f.profiles[userID] = rec
	return nil
}

func (f *FakeStore) indexLocked(userID, id string) int {
	return slices.IndexFunc(f.tasks[userID], func(t service.Task) bool { return t.ID == id })
}

func taskFrom(id string, fields service.Fields) service.Task {
	return service.Task{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority,
		IsCompleted: fields.IsCompleted,
	}
}
