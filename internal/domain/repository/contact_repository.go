package repository

import (
	"context"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
)

// ContactRepository scopes every query by owner.
type ContactRepository interface {
	List(ctx context.Context, ownerID string, skip, limit int) ([]entity.Contact, error)
	GetByID(ctx context.Context, ownerID, id string) (*entity.Contact, error)
	GetByEmail(ctx context.Context, ownerID, email string) (*entity.Contact, error)
	Create(ctx context.Context, c *entity.Contact) error
	Update(ctx context.Context, c *entity.Contact) error
	Delete(ctx context.Context, ownerID, id string) error
}
