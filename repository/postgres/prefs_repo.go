package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
)

const permissionKeyPrefix = "permission:"

type prefsRepository struct {
	pool *pgxpool.Pool
}

// NewPrefsRepository returns a Postgres-backed implementation of
// PrefsRepository over a simple key/value slot table.
func NewPrefsRepository(pool *pgxpool.Pool) repository.PrefsRepository {
	return &prefsRepository{pool: pool}
}

func (r *prefsRepository) Theme(ctx context.Context) (domain.Theme, error) {
	value, err := r.get(ctx, "theme")
	if err != nil {
		return "", err
	}
	if theme := domain.Theme(value); theme.IsValid() {
		return theme, nil
	}
	return domain.ThemeLight, nil
}

func (r *prefsRepository) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.IsValid() {
		return domain.ErrInvalidPayload
	}
	return r.set(ctx, "theme", string(theme))
}

func (r *prefsRepository) Permission(ctx context.Context, userKey string) (domain.Permission, error) {
	value, err := r.get(ctx, permissionKeyPrefix+userKey)
	if err != nil {
		return "", err
	}
	if permission := domain.Permission(value); permission.IsValid() {
		return permission, nil
	}
	return domain.PermissionDefault, nil
}

func (r *prefsRepository) SetPermission(ctx context.Context, userKey string, permission domain.Permission) error {
	if !permission.IsValid() {
		return domain.ErrInvalidPayload
	}
	return r.set(ctx, permissionKeyPrefix+userKey, string(permission))
}

func (r *prefsRepository) get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM planner_prefs WHERE key = $1`

	var value string
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *prefsRepository) set(ctx context.Context, key, value string) error {
	const query = `
	INSERT INTO planner_prefs (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}
