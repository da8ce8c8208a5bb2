package bolt

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
)

type snapshotRepository struct {
	store *Store
}

// NewSnapshotRepository returns a Bolt-backed implementation of
// SnapshotRepository. The key is the user email, the value the JSON array of
// that user's tasks.
func NewSnapshotRepository(store *Store) repository.SnapshotRepository {
	return &snapshotRepository{store: store}
}

func (r *snapshotRepository) Load(ctx context.Context, userKey string) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := r.store.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucketTasks).Get([]byte(userKey)); value != nil {
			raw = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrSnapshotNotFound
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		// A corrupt snapshot reads as absent rather than crashing the session.
		return nil, domain.ErrSnapshotNotFound
	}
	return tasks, nil
}

func (r *snapshotRepository) Save(ctx context.Context, userKey string, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	payload, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return r.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).Put([]byte(userKey), payload)
	})
}

func (r *snapshotRepository) Delete(ctx context.Context, userKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).Delete([]byte(userKey))
	})
}

func (r *snapshotRepository) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
