// Package firestoredb implements service.Store on Cloud Firestore.
// Tasks live at users/{uid}/tasks/{taskId}.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskly/internal/config"
	"taskly/internal/service"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

// Store implements service.Store using Firestore.
type Store struct {
	client  *firestore.Client
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Firestore store for cfg.ProjectID. Calls are authorized
// with tokens from ts, normally the signed-in user's ID token.
func New(ctx context.Context, cfg *config.Config, ts oauth2.TokenSource, logger *slog.Logger) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id not configured")
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return NewWithClient(client, cfg.Timeout, logger), nil
}

// NewWithClient wraps an existing client (for the emulator and tests).
func NewWithClient(client *firestore.Client, timeout time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{client: client, timeout: timeout, logger: logger}
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) tasks(userID string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(tasksCollection)
}

// withTimeout bounds a single call when a timeout is configured.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Subscribe opens a snapshot listener on the user's tasks ordered by due date.
func (s *Store) Subscribe(ctx context.Context, userID string) (*service.Subscription, error) {
	if userID == "" {
		return nil, service.ErrNotAuthenticated
	}
	q := s.tasks(userID).OrderBy("dueDate", firestore.Asc)
	logger := s.logger.With(slog.String("uid", userID))

	sub := service.NewSubscription(ctx, func(ctx context.Context, emit func(service.Snapshot) bool) {
		it := q.Snapshots(ctx)
		defer it.Stop()
		logger.Debug("subscription opened")
		defer logger.Debug("subscription closed")

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				werr := wrapError("subscribe", err)
				logger.Warn("subscription failed", slog.String("error", werr.Error()))
				emit(service.Snapshot{Err: werr})
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				emit(service.Snapshot{Err: wrapError("subscribe", err)})
				return
			}
			tasks := make([]service.Task, 0, len(docs))
			for _, d := range docs {
				var td taskDoc
				if err := d.DataTo(&td); err != nil {
					logger.Warn("skipping malformed task", slog.String("id", d.Ref.ID), slog.String("error", err.Error()))
					continue
				}
				task, err := td.task(d.Ref.ID)
				if err != nil {
					logger.Warn("task has unreadable due date", slog.String("id", d.Ref.ID), slog.String("error", err.Error()))
				}
				tasks = append(tasks, task)
			}
			logger.Debug("snapshot", slog.Int("tasks", len(tasks)))
			if !emit(service.Snapshot{Tasks: tasks}) {
				return
			}
		}
	})
	return sub, nil
}

// Create stores the task under a generated key, with the key mirrored into
// the id field in the same write.
func (s *Store) Create(ctx context.Context, userID string, f service.Fields) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ref := s.tasks(userID).NewDoc()
	if _, err := ref.Create(ctx, newTaskDoc(ref.ID, f)); err != nil {
		return "", wrapError("create task", err)
	}
	s.logger.Debug("task created", slog.String("uid", userID), slog.String("id", ref.ID))
	return ref.ID, nil
}

// Update overwrites the whole document.
func (s *Store) Update(ctx context.Context, userID, id string, f service.Fields) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.tasks(userID).Doc(id).Set(ctx, newTaskDoc(id, f)); err != nil {
		return wrapError("update task", err)
	}
	s.logger.Debug("task updated", slog.String("uid", userID), slog.String("id", id))
	return nil
}

// MergeFields writes only the patched fields.
func (s *Store) MergeFields(ctx context.Context, userID, id string, p service.Patch) error {
	if p.Empty() {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.tasks(userID).Doc(id).Set(ctx, patchData(p), firestore.MergeAll); err != nil {
		return wrapError("update task", err)
	}
	s.logger.Debug("task merged", slog.String("uid", userID), slog.String("id", id))
	return nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.tasks(userID).Doc(id).Delete(ctx); err != nil {
		return wrapError("delete task", err)
	}
	s.logger.Debug("task deleted", slog.String("uid", userID), slog.String("id", id))
	return nil
}

// SaveProfile writes users/{uid}.
func (s *Store) SaveProfile(ctx context.Context, userID string, rec service.UserRecord) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := userDoc{
		Username:  rec.Username,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if _, err := s.client.Collection(usersCollection).Doc(userID).Set(ctx, doc); err != nil {
		return wrapError("save profile", err)
	}
	return nil
}

// wrapError maps gRPC failures into the service error taxonomy.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &service.StoreError{Op: op, Err: errors.New("request timed out")}
	}
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%s: %w", op, service.ErrNotAuthenticated)
	case codes.DeadlineExceeded:
		return &service.StoreError{Op: op, Err: errors.New("request timed out")}
	case codes.Unavailable:
		return &service.StoreError{Op: op, Err: errors.New("service unavailable")}
	}
	return &service.StoreError{Op: op, Err: err}
}
