package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/internal/scheduler"
	appLogger "github.com/planora/backend/pkg/logger"
	"github.com/planora/backend/repository"
)

// UseCase orchestrates the task store contract: every mutation loads the
// user's snapshot, applies a pure domain operation, writes the result
// through, and recomputes that user's reminders. A per-user lock serializes
// the read-modify-write so mutations never interleave, matching the
// single-session model of the planner UI.
type UseCase struct {
	snapshots repository.SnapshotRepository
	prefs     repository.PrefsRepository
	reminders *scheduler.Reminders
	logger    *zap.Logger
	locks     keyedMutex
}

func New(snapshots repository.SnapshotRepository, prefs repository.PrefsRepository, reminders *scheduler.Reminders, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		snapshots: snapshots,
		prefs:     prefs,
		reminders: reminders,
		logger:    logger,
	}
}

// List returns the user's current snapshot, order preserved. A user without
// a stored snapshot has an empty collection.
func (uc *UseCase) List(ctx context.Context, userKey string) ([]domain.Task, error) {
	return uc.loadOrEmpty(ctx, userKey)
}

// Add stamps the draft and appends it.
func (uc *UseCase) Add(ctx context.Context, userKey string, draft domain.TaskDraft) ([]domain.Task, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.DueDate.IsZero() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task due date is required")
	}
	return uc.mutate(ctx, userKey, func(snapshot []domain.Task) []domain.Task {
		return domain.AddTask(snapshot, draft)
	})
}

// Update replaces the task with a matching id; an unknown id is a silent miss.
func (uc *UseCase) Update(ctx context.Context, userKey string, task domain.Task) ([]domain.Task, error) {
	if task.ID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task id is required")
	}
	if !task.Category.IsValid() || !task.Priority.IsValid() || task.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	return uc.mutate(ctx, userKey, func(snapshot []domain.Task) []domain.Task {
		return domain.UpdateTask(snapshot, task)
	})
}

// Remove deletes the task with the given id.
func (uc *UseCase) Remove(ctx context.Context, userKey, id string) ([]domain.Task, error) {
	return uc.mutate(ctx, userKey, func(snapshot []domain.Task) []domain.Task {
		return domain.RemoveTask(snapshot, id)
	})
}

// Toggle flips the completed flag on the task with the given id.
func (uc *UseCase) Toggle(ctx context.Context, userKey, id string) ([]domain.Task, error) {
	return uc.mutate(ctx, userKey, func(snapshot []domain.Task) []domain.Task {
		return domain.ToggleTask(snapshot, id)
	})
}

// MoveCategory moves a task between board columns.
func (uc *UseCase) MoveCategory(ctx context.Context, userKey, id string, category domain.Category) ([]domain.Task, error) {
	if !category.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task category")
	}
	return uc.mutate(ctx, userKey, func(snapshot []domain.Task) []domain.Task {
		return domain.SetTaskCategory(snapshot, id, category)
	})
}

// MergeDrafts stamps suggestion drafts (fresh ids, completed=false, the
// given due date) and appends them after the existing tasks.
func (uc *UseCase) MergeDrafts(ctx context.Context, userKey string, drafts []domain.TaskDraft, dueDate time.Time) ([]domain.Task, error) {
	for _, draft := range drafts {
		if err := draft.Validate(); err != nil {
			return nil, err
		}
	}
	return uc.mutate(ctx, userKey, func(snapshot []domain.Task) []domain.Task {
		return domain.MergeTasks(snapshot, domain.StampDrafts(drafts, dueDate))
	})
}

// Activate loads the user's snapshot (or an empty one) and arms reminders.
// Called when a login switches the active user.
func (uc *UseCase) Activate(ctx context.Context, userKey string) ([]domain.Task, error) {
	uc.locks.lock(userKey)
	defer uc.locks.unlock(userKey)

	snapshot, err := uc.loadOrEmpty(ctx, userKey)
	if err != nil {
		return nil, err
	}
	uc.recompute(ctx, userKey, snapshot)
	return snapshot, nil
}

// Deactivate cancels every pending reminder for the user. Called on logout.
func (uc *UseCase) Deactivate(userKey string) {
	uc.reminders.Drop(userKey)
}

// Recompute rebuilds the user's reminder firings from durable state, for
// triggers that change no task (a permission flip).
func (uc *UseCase) Recompute(ctx context.Context, userKey string) error {
	uc.locks.lock(userKey)
	defer uc.locks.unlock(userKey)

	snapshot, err := uc.loadOrEmpty(ctx, userKey)
	if err != nil {
		return err
	}
	uc.recompute(ctx, userKey, snapshot)
	return nil
}

func (uc *UseCase) mutate(ctx context.Context, userKey string, op func([]domain.Task) []domain.Task) ([]domain.Task, error) {
	if userKey == "" {
		return nil, domain.ErrUnauthorized
	}

	uc.locks.lock(userKey)
	defer uc.locks.unlock(userKey)

	snapshot, err := uc.loadOrEmpty(ctx, userKey)
	if err != nil {
		return nil, err
	}

	next := op(snapshot)
	if err := uc.snapshots.Save(ctx, userKey, next); err != nil {
		// One attempt per mutation; the stored snapshot keeps its last
		// consistent state and the caller hears about the failure.
		return nil, err
	}

	uc.recompute(ctx, userKey, next)
	return next, nil
}

func (uc *UseCase) loadOrEmpty(ctx context.Context, userKey string) ([]domain.Task, error) {
	snapshot, err := uc.snapshots.Load(ctx, userKey)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return []domain.Task{}, nil
		}
		return nil, err
	}
	return snapshot, nil
}

func (uc *UseCase) recompute(ctx context.Context, userKey string, snapshot []domain.Task) {
	permission, err := uc.prefs.Permission(ctx, userKey)
	if err != nil {
		appLogger.WithRequestID(ctx, uc.logger).Warn("permission lookup failed, keeping reminders quiescent",
			zap.String("user", userKey), zap.Error(err))
		permission = domain.PermissionDefault
	}
	uc.reminders.Recompute(userKey, snapshot, permission == domain.PermissionGranted)
}
