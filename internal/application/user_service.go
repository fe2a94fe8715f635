package application

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
)

const avatarFolder = "contacts-api/"

// UserService covers profile operations outside the login flow.
type UserService struct {
	Repo   repo.UserRepository
	Media  MediaStorage
	Cache  *SessionCache
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, media MediaStorage, cache *SessionCache, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Media: media, Cache: cache, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UploadAvatar stores the image under a per-username id, replacing any
// previous upload, and records the returned URL on the account.
func (s *UserService) UploadAvatar(ctx context.Context, id entity.Identity, r io.Reader, contentType string) (*entity.User, error) {
	if s.Media == nil {
		return nil, ErrMediaUnavailable
	}
	objectID := avatarFolder + id.Username
	url, err := s.Media.Upload(ctx, r, objectID, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetAvatar(ctx, id.ID, url); err != nil {
		if derr := s.Media.Delete(ctx, objectID); derr != nil && s.Logger != nil {
			s.Logger.WithError(derr).WithField("object", objectID).Warn("orphaned avatar cleanup failed")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", id.ID).Info("avatar updated")
	}
	return s.GetProfile(ctx, id.ID)
}

// AssignRole persists a new role and refreshes the cached snapshot so the
// change applies to live sessions immediately.
func (s *UserService) AssignRole(ctx context.Context, userID, role string) (*entity.User, error) {
	r, err := entity.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if err := s.Repo.SetRole(ctx, userID, r); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Put(ctx, entity.IdentityFromUser(u)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session cache refresh failed")
		}
	}
	return u, nil
}
