package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskly/internal/service"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    service.Kind
		message string
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "missing or insufficient permissions"), service.KindNotAuthenticated, "delete task: not logged in"},
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad token"), service.KindNotAuthenticated, "delete task: not logged in"},
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), service.KindStoreUnavailable, "delete task: service unavailable"},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), service.KindStoreUnavailable, "delete task: request timed out"},
		{"context deadline", fmt.Errorf("rpc: %w", context.DeadlineExceeded), service.KindStoreUnavailable, "delete task: request timed out"},
		{"other", errors.New("boom"), service.KindStoreUnavailable, "delete task: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError("delete task", tt.err)
			if got := service.KindOf(err); got != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, got)
			}
			if err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, err.Error())
			}
		})
	}

	if wrapError("x", nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestSubscribe_RequiresUser(t *testing.T) {
	s := &Store{}
	if _, err := s.Subscribe(context.Background(), ""); !errors.Is(err, service.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestMergeFields_EmptyPatchIsNoop(t *testing.T) {
	s := &Store{}
	if err := s.MergeFields(context.Background(), "u1", "t1", service.Patch{}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

// newEmulatorStore connects to the Firestore emulator named by
// FIRESTORE_EMULATOR_HOST, or skips the test.
func newEmulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "taskly-test")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	s := NewWithClient(client, 10*time.Second, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func nextSnapshot(t *testing.T, sub *service.Subscription) []service.Task {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		if !ok {
			t.Fatal("subscription closed")
		}
		if snap.Err != nil {
			t.Fatalf("subscription failed: %v", snap.Err)
		}
		return snap.Tasks
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestStore_Emulator(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := fmt.Sprintf("user-%d", time.Now().UnixNano())

	sub, err := s.Subscribe(ctx, uid)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Close()

	if tasks := nextSnapshot(t, sub); len(tasks) != 0 {
		t.Fatalf("expected empty initial snapshot, got %v", tasks)
	}

	later := service.NewFields("Later", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	sooner := service.NewFields("Sooner", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	laterID, err := s.Create(ctx, uid, later)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.Create(ctx, uid, sooner); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	doc, err := s.tasks(uid).Doc(laterID).Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got, _ := doc.DataAt("id"); got != laterID {
		t.Errorf("expected id field %q, got %v", laterID, got)
	}

	var tasks []service.Task
	for len(tasks) != 2 {
		tasks = nextSnapshot(t, sub)
	}
	if tasks[0].Title != "Sooner" || tasks[1].Title != "Later" {
		t.Errorf("expected due date order, got %v", tasks)
	}

	done := true
	if err := s.MergeFields(ctx, uid, laterID, service.Patch{IsCompleted: &done}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	for {
		tasks = nextSnapshot(t, sub)
		if len(tasks) == 2 && tasks[1].IsCompleted {
			break
		}
	}
	if tasks[1].ID != laterID || tasks[1].Title != "Later" {
		t.Errorf("merge must keep other fields, got %+v", tasks[1])
	}

	if err := s.Delete(ctx, uid, laterID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	for len(tasks) != 1 {
		tasks = nextSnapshot(t, sub)
	}

	rec := service.UserRecord{Username: "alice", Email: "alice@example.com", CreatedAt: time.Now()}
	if err := s.SaveProfile(ctx, uid, rec); err != nil {
		t.Fatalf("save profile failed: %v", err)
	}
}

func TestStore_EmulatorStringDueDate(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := fmt.Sprintf("user-%d", time.Now().UnixNano())

	raw := map[string]interface{}{
		"id":          "legacy",
		"title":       "Old task",
		"description": "",
		"dueDate":     "2024-03-05T09:00:00.000Z",
		"priority":    "low",
		"isCompleted": false,
	}
	if _, err := s.tasks(uid).Doc("legacy").Set(ctx, raw); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	sub, err := s.Subscribe(ctx, uid)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Close()

	tasks := nextSnapshot(t, sub)
	if len(tasks) != 1 {
		t.Fatalf("expected the string-dated task, got %v", tasks)
	}
	if !tasks[0].DueDate.Equal(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected due date: %v", tasks[0].DueDate)
	}
}
