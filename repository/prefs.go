package repository

import (
	"context"

	"github.com/planora/backend/domain"
)

// PrefsRepository stores the theme and the per-user notification permission.
// Reads fall back to the zero state (light theme, default permission) when
// nothing has been stored yet; absence is not an error.
type PrefsRepository interface {
	Theme(ctx context.Context) (domain.Theme, error)
	SetTheme(ctx context.Context, theme domain.Theme) error
	Permission(ctx context.Context, userKey string) (domain.Permission, error)
	SetPermission(ctx context.Context, userKey string, permission domain.Permission) error
}
