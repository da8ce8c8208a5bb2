package repository

import (
	"context"

	"github.com/planora/backend/domain"
)

type UserRepository interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, email string) error
}
