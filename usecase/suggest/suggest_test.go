package suggest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/internal/notify"
	"github.com/planora/backend/internal/scheduler"
	boltRepo "github.com/planora/backend/repository/bolt"
	taskUC "github.com/planora/backend/usecase/task"
)

const testUser = "ada@example.com"

type stubGateway struct {
	drafts []domain.TaskDraft
	err    error
	calls  int
}

func (s *stubGateway) SuggestTasks(ctx context.Context) ([]domain.TaskDraft, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.drafts, nil
}

type stubSessions struct {
	session *domain.Session
}

func (s *stubSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	if s.session == nil || s.session.ID != id {
		return nil, domain.ErrSessionNotFound
	}
	return s.session, nil
}

func (s *stubSessions) Save(ctx context.Context, session *domain.Session) error {
	s.session = session
	return nil
}

func (s *stubSessions) Delete(ctx context.Context, id string) error {
	if s.session != nil && s.session.ID == id {
		s.session = nil
	}
	return nil
}

type quietPrefs struct{}

func (quietPrefs) Theme(ctx context.Context) (domain.Theme, error) { return domain.ThemeLight, nil }

func (quietPrefs) SetTheme(ctx context.Context, theme domain.Theme) error { return nil }

func (quietPrefs) Permission(ctx context.Context, userKey string) (domain.Permission, error) {
	return domain.PermissionDefault, nil
}

func (quietPrefs) SetPermission(ctx context.Context, userKey string, permission domain.Permission) error {
	return nil
}

func threeDrafts() []domain.TaskDraft {
	return []domain.TaskDraft{
		{Title: "Review lecture notes", Category: domain.CategoryStudy, Priority: domain.PriorityHigh},
		{Title: "Go for a walk", Category: domain.CategoryHealth, Priority: domain.PriorityMedium},
		{Title: "Call a friend", Category: domain.CategoryPersonal, Priority: domain.PriorityLow},
	}
}

func newFixture(t *testing.T, gateway Gateway) (*UseCase, *taskUC.UseCase, *stubSessions) {
	t.Helper()

	store, err := boltRepo.Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reminders := scheduler.New(5*time.Minute, notify.NewHub(4, nil), nil)
	t.Cleanup(reminders.Stop)

	planner := taskUC.New(boltRepo.NewSnapshotRepository(store), quietPrefs{}, reminders, nil)
	sessions := &stubSessions{session: &domain.Session{
		ID:        "session-1",
		UserEmail: testUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}}

	return New(gateway, planner, sessions, nil), planner, sessions
}

func TestSuggestMergesWithTwoHourDueDate(t *testing.T) {
	gateway := &stubGateway{drafts: threeDrafts()}
	uc, planner, _ := newFixture(t, gateway)
	ctx := context.Background()

	_, err := planner.Add(ctx, testUser, domain.TaskDraft{
		Title:    "existing",
		Category: domain.CategoryGeneral,
		Priority: domain.PriorityLow,
		DueDate:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	requestedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return requestedAt }

	snapshot, err := uc.Suggest(ctx, "session-1", testUser)
	require.NoError(t, err)
	require.Len(t, snapshot, 4)

	assert.Equal(t, "existing", snapshot[0].Title, "merged drafts go after existing tasks")
	for _, task := range snapshot[1:] {
		assert.NotEmpty(t, task.ID)
		assert.False(t, task.Completed)
		assert.Equal(t, requestedAt.Add(2*time.Hour), task.DueDate)
	}
	assert.Equal(t, 1, gateway.calls)
}

func TestSuggestFailureLeavesStoreUntouched(t *testing.T) {
	gateway := &stubGateway{err: domain.ErrSuggestionFailed}
	uc, planner, _ := newFixture(t, gateway)
	ctx := context.Background()

	_, err := planner.Add(ctx, testUser, domain.TaskDraft{
		Title:    "existing",
		Category: domain.CategoryGeneral,
		Priority: domain.PriorityLow,
		DueDate:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = uc.Suggest(ctx, "session-1", testUser)
	assert.ErrorIs(t, err, domain.ErrSuggestionFailed)
	assert.Equal(t, 1, gateway.calls, "no retry after a failed round trip")

	snapshot, err := planner.List(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, snapshot, 1)
}

func TestSuggestDiscardsResultAfterLogout(t *testing.T) {
	gateway := &stubGateway{drafts: threeDrafts()}
	uc, planner, sessions := newFixture(t, gateway)
	ctx := context.Background()

	require.NoError(t, sessions.Delete(ctx, "session-1"))

	_, err := uc.Suggest(ctx, "session-1", testUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	snapshot, err := planner.List(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestSuggestDiscardsResultForDifferentUser(t *testing.T) {
	gateway := &stubGateway{drafts: threeDrafts()}
	uc, planner, sessions := newFixture(t, gateway)
	ctx := context.Background()

	sessions.session.UserEmail = "bob@example.com"

	_, err := uc.Suggest(ctx, "session-1", testUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	snapshot, err := planner.List(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}
