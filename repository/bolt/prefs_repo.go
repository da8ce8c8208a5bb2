package bolt

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
)

var (
	keyTheme      = []byte("theme")
	permKeyPrefix = "permission:"
)

type prefsRepository struct {
	store *Store
}

// NewPrefsRepository returns a Bolt-backed implementation of PrefsRepository.
func NewPrefsRepository(store *Store) repository.PrefsRepository {
	return &prefsRepository{store: store}
}

func (r *prefsRepository) Theme(ctx context.Context) (domain.Theme, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	theme := domain.ThemeLight
	err := r.store.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucketPrefs).Get(keyTheme); value != nil {
			if stored := domain.Theme(value); stored.IsValid() {
				theme = stored
			}
		}
		return nil
	})
	return theme, err
}

func (r *prefsRepository) SetTheme(ctx context.Context, theme domain.Theme) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !theme.IsValid() {
		return domain.ErrInvalidPayload
	}
	return r.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put(keyTheme, []byte(theme))
	})
}

func (r *prefsRepository) Permission(ctx context.Context, userKey string) (domain.Permission, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	permission := domain.PermissionDefault
	err := r.store.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucketPrefs).Get([]byte(permKeyPrefix + userKey)); value != nil {
			if stored := domain.Permission(value); stored.IsValid() {
				permission = stored
			}
		}
		return nil
	})
	return permission, err
}

func (r *prefsRepository) SetPermission(ctx context.Context, userKey string, permission domain.Permission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !permission.IsValid() {
		return domain.ErrInvalidPayload
	}
	return r.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put([]byte(permKeyPrefix+userKey), []byte(permission))
	})
}
