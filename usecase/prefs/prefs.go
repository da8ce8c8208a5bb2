package prefs

import (
	"context"

	"go.uber.org/zap"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
	taskUC "github.com/planora/backend/usecase/task"
)

// UseCase manages the theme and the per-user notification permission. A
// permission change re-arms or silences the user's reminders immediately.
type UseCase struct {
	prefs   repository.PrefsRepository
	planner *taskUC.UseCase
	logger  *zap.Logger
}

func New(prefs repository.PrefsRepository, planner *taskUC.UseCase, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		prefs:   prefs,
		planner: planner,
		logger:  logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userKey string) (domain.Prefs, error) {
	theme, err := uc.prefs.Theme(ctx)
	if err != nil {
		return domain.Prefs{}, err
	}
	permission, err := uc.prefs.Permission(ctx, userKey)
	if err != nil {
		return domain.Prefs{}, err
	}
	return domain.Prefs{Theme: theme, Notification: permission}, nil
}

func (uc *UseCase) SetTheme(ctx context.Context, theme domain.Theme) error {
	return uc.prefs.SetTheme(ctx, theme)
}

// SetPermission stores the new permission state and recomputes reminders:
// a grant arms them, a revoke cancels every pending firing.
func (uc *UseCase) SetPermission(ctx context.Context, userKey string, permission domain.Permission) error {
	if err := uc.prefs.SetPermission(ctx, userKey, permission); err != nil {
		return err
	}
	if err := uc.planner.Recompute(ctx, userKey); err != nil {
		uc.logger.Warn("reminder recompute after permission change failed",
			zap.String("user", userKey), zap.Error(err))
	}
	return nil
}
