package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation of UserRepository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Get(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT email, name, avatar, created_at FROM planner_users WHERE email = $1`

	var user domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(&user.Email, &user.Name, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.Email == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO planner_users (email, name, avatar, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, avatar = EXCLUDED.avatar
	`
	_, err := r.pool.Exec(ctx, query, user.Email, user.Name, user.Avatar, user.CreatedAt)
	return err
}

func (r *userRepository) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM planner_users WHERE email = $1`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}
