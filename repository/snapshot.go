package repository

import (
	"context"

	"github.com/planora/backend/domain"
)

// SnapshotRepository is the durable mirror of a user's task collection: one
// serialized snapshot per user key, written through after every mutation.
// Load returns domain.ErrSnapshotNotFound when no snapshot exists yet; the
// caller treats that as an empty collection.
type SnapshotRepository interface {
	Load(ctx context.Context, userKey string) ([]domain.Task, error)
	Save(ctx context.Context, userKey string, tasks []domain.Task) error
	Delete(ctx context.Context, userKey string) error
	// Keys lists every user key that currently has a snapshot.
	Keys(ctx context.Context) ([]string, error)
}
