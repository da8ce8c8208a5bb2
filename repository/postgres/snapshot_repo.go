package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
)

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository returns a Postgres-backed implementation of
// SnapshotRepository. Each user's collection is stored as a single jsonb
// snapshot row, mirroring the one-slot-per-user persistence contract.
func NewSnapshotRepository(pool *pgxpool.Pool) repository.SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Load(ctx context.Context, userKey string) ([]domain.Task, error) {
	const query = `SELECT tasks FROM task_snapshots WHERE user_email = $1`

	var raw []byte
	if err := r.pool.QueryRow(ctx, query, userKey).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		// A corrupt snapshot reads as absent rather than crashing the session.
		return nil, domain.ErrSnapshotNotFound
	}
	return tasks, nil
}

func (r *snapshotRepository) Save(ctx context.Context, userKey string, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO task_snapshots (user_email, tasks, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_email) DO UPDATE SET tasks = EXCLUDED.tasks, updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query, userKey, payload, time.Now().UTC())
	return err
}

func (r *snapshotRepository) Delete(ctx context.Context, userKey string) error {
	const query = `DELETE FROM task_snapshots WHERE user_email = $1`
	_, err := r.pool.Exec(ctx, query, userKey)
	return err
}

func (r *snapshotRepository) Keys(ctx context.Context) ([]string, error) {
	const query = `SELECT user_email FROM task_snapshots ORDER BY user_email`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
