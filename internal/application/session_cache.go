package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
)

const DefaultSessionTTL = time.Hour

func sessionKey(username string) string {
	return "user:" + username
}

// SessionCache maps a username to its Identity snapshot. A miss means
// "consult persistence", never "user does not exist".
type SessionCache struct {
	store  CacheStore
	ttl    time.Duration
	logger *logrus.Logger
}

func NewSessionCache(store CacheStore, ttl time.Duration, logger *logrus.Logger) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionCache{store: store, ttl: ttl, logger: logger}
}

func (c *SessionCache) TTL() time.Duration { return c.ttl }

// Get returns the snapshot for username. A corrupt or unreadable entry is
// reported as a miss so the caller reloads it from persistence.
func (c *SessionCache) Get(ctx context.Context, username string) (*entity.Identity, error) {
	b, ok, err := c.store.Get(ctx, sessionKey(username))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var id entity.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		if c.logger != nil {
			c.logger.WithError(err).WithField("username", username).Warn("discarding unreadable session snapshot")
		}
		return nil, nil
	}
	return &id, nil
}

// Put overwrites the snapshot for id.Username.
func (c *SessionCache) Put(ctx context.Context, id entity.Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, sessionKey(id.Username), b, c.ttl)
}
