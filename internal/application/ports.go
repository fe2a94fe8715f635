package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
)

// CacheStore is a key-value store with per-key TTL. A miss is (nil, false, nil)
// and the returned slice belongs to the caller.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Mailer delivers a templated email. Implementations may enqueue rather than send.
type Mailer interface {
	Send(ctx context.Context, template, recipient string, vars map[string]any) error
}

// MediaStorage stores uploaded files under a caller-chosen id and returns a public URL.
type MediaStorage interface {
	Upload(ctx context.Context, r io.Reader, id, contentType string) (string, error)
	Delete(ctx context.Context, id string) error
}

// ContactIndexer keeps a searchable copy of contacts. Search returns contact ids.
type ContactIndexer interface {
	Index(ctx context.Context, c *entity.Contact) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, ownerID, query string, size int) ([]string, error)
}

// Email template names understood by every Mailer implementation.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplateResetPassword = "reset_password"
)
