package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
	"github.com/oksasatya/contacts-api/pkg/helpers"
)

// IdentityResolver turns a bearer access token into an Identity, reading the
// session cache before persistence. A cached snapshot is authoritative until
// it expires: role or confirmation changes are not visible before then.
type IdentityResolver struct {
	JWT    *helpers.JWTManager
	Users  repo.UserRepository
	Cache  *SessionCache
	Logger *logrus.Logger

	// FailOpen makes cache read errors fall through to persistence instead of
	// failing the request.
	FailOpen bool
}

func NewIdentityResolver(jwt *helpers.JWTManager, users repo.UserRepository, cache *SessionCache, logger *logrus.Logger, failOpen bool) *IdentityResolver {
	return &IdentityResolver{JWT: jwt, Users: users, Cache: cache, Logger: logger, FailOpen: failOpen}
}

func (r *IdentityResolver) Resolve(ctx context.Context, accessToken string) (entity.Identity, error) {
	claims, err := r.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return entity.Identity{}, ErrCouldNotValidate
	}
	username := claims.Subject

	cached, err := r.Cache.Get(ctx, username)
	switch {
	case err != nil && !r.FailOpen:
		return entity.Identity{}, fmt.Errorf("session cache: %w", err)
	case err != nil:
		if r.Logger != nil {
			r.Logger.WithError(err).WithField("username", username).Warn("session cache read failed, using database")
		}
	case cached != nil:
		return *cached, nil
	}

	u, err := r.Users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return entity.Identity{}, ErrCouldNotValidate
	}
	if err != nil {
		return entity.Identity{}, err
	}

	id := entity.IdentityFromUser(u)
	if err := r.Cache.Put(ctx, id); err != nil && r.Logger != nil {
		r.Logger.WithError(err).WithField("username", username).Warn("session cache write failed")
	}
	return id, nil
}
