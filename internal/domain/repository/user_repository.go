package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetConfirmed(ctx context.Context, email string) error
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	SetPasswordHash(ctx context.Context, userID, hash string) error
	SetAvatar(ctx context.Context, userID, url string) error
	SetRole(ctx context.Context, userID string, role entity.Role) error
}
