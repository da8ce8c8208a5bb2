package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planora/backend/domain"
	appLogger "github.com/planora/backend/pkg/logger"
	"github.com/planora/backend/repository"
	taskUC "github.com/planora/backend/usecase/task"
)

// Config holds the token-signing settings.
type Config struct {
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
}

// UseCase implements the mock identity flow: any email logs in, the display
// identity is derived from it, and logout tears the whole namespace down,
// including the durable task snapshot. The planner does not retain task
// history past logout.
type UseCase struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	snapshots repository.SnapshotRepository
	planner   *taskUC.UseCase
	cfg       Config
	logger    *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, snapshots repository.SnapshotRepository, planner *taskUC.UseCase, cfg Config, logger *zap.Logger) *UseCase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		sessions:  sessions,
		snapshots: snapshots,
		planner:   planner,
		cfg:       cfg,
		logger:    logger,
	}
}

// Login activates the user's namespace and returns a bearer token. The
// password is accepted unvalidated, as in the original mock flow.
func (uc *UseCase) Login(ctx context.Context, email, _ string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "a valid email is required")
	}

	user := domain.NewUserFromEmail(email)
	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, "", err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserEmail: email,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.cfg.SessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, "", err
	}

	// Switching the active user swaps in that user's collection and re-arms
	// reminders from it.
	if _, err := uc.planner.Activate(ctx, email); err != nil {
		uc.logger.Warn("snapshot activation failed", zap.String("user", email), zap.Error(err))
	}

	appLogger.WithRequestID(ctx, uc.logger).Info("user logged in", zap.String("user", email))
	return user, token, nil
}

// Logout revokes the session, cancels the user's reminders, and removes the
// durable snapshot and user record. Task history does not survive logout.
func (uc *UseCase) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrSessionNotFound
	}

	if err := uc.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}

	uc.planner.Deactivate(session.UserEmail)

	// The user record goes before the snapshot: a failure between the two
	// leaves an ownerless snapshot the janitor sweep reclaims. The reverse
	// order would strand the snapshot under a live owner forever.
	if err := uc.users.Delete(ctx, session.UserEmail); err != nil {
		return err
	}
	if err := uc.snapshots.Delete(ctx, session.UserEmail); err != nil {
		return err
	}

	appLogger.WithRequestID(ctx, uc.logger).Info("user logged out", zap.String("user", session.UserEmail))
	return nil
}

// Validate checks a bearer token and returns the live session behind it.
func (uc *UseCase) Validate(ctx context.Context, tokenString string) (*domain.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return []byte(uc.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	sessionID, _ := claims["sid"].(string)
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":   session.ID,
		"email": session.UserEmail,
		"iss":   uc.cfg.JWTIssuer,
		"exp":   session.ExpiresAt.Unix(),
		"iat":   session.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.cfg.JWTSecret))
}
