package suggest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/repository"
	taskUC "github.com/planora/backend/usecase/task"
)

// DefaultDueOffset is the due date given to suggested tasks, relative to the
// moment the suggestion was requested.
const DefaultDueOffset = 2 * time.Hour

// Gateway is the one-shot suggestion round trip to the generative service.
type Gateway interface {
	SuggestTasks(ctx context.Context) ([]domain.TaskDraft, error)
}

// UseCase drives the suggestion flow: one external round trip, then an
// all-or-nothing merge into the requesting user's task store.
type UseCase struct {
	gateway   Gateway
	planner   *taskUC.UseCase
	sessions  repository.SessionRepository
	dueOffset time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(gateway Gateway, planner *taskUC.UseCase, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		gateway:   gateway,
		planner:   planner,
		sessions:  sessions,
		dueOffset: DefaultDueOffset,
		now:       time.Now,
		logger:    logger,
	}
}

// Suggest performs the round trip and merges the drafts as ordinary new
// tasks due two hours from now. Any gateway failure leaves the store
// untouched. Results arriving after the session ended are discarded, so a
// stale in-flight request can never insert tasks into another user's
// collection.
func (uc *UseCase) Suggest(ctx context.Context, sessionID, userKey string) ([]domain.Task, error) {
	requestedAt := uc.now()

	drafts, err := uc.gateway.SuggestTasks(ctx)
	if err != nil {
		uc.logger.Warn("suggestion round trip failed", zap.String("user", userKey), zap.Error(err))
		return nil, err
	}

	// The round trip held no lock; re-check the requester is still the
	// active session before touching the store.
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil || session.UserEmail != userKey {
		uc.logger.Info("discarding stale suggestion result", zap.String("user", userKey))
		return nil, domain.ErrUnauthorized
	}

	snapshot, err := uc.planner.MergeDrafts(ctx, userKey, drafts, requestedAt.Add(uc.dueOffset))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("suggestions merged",
		zap.String("user", userKey),
		zap.Int("count", len(drafts)))
	return snapshot, nil
}
