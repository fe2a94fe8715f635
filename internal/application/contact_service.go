package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
)

const (
	DefaultContactLimit = 10
	MaxContactLimit     = 100
	indexTimeout        = 3 * time.Second
)

type ContactService struct {
	Repo   repo.ContactRepository
	Index  ContactIndexer
	Logger *logrus.Logger
}

func NewContactService(r repo.ContactRepository, index ContactIndexer, logger *logrus.Logger) *ContactService {
	return &ContactService{Repo: r, Index: index, Logger: logger}
}

type ContactInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalData *string
}

// ContactPatch carries only the fields to change.
type ContactPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	Birthday       *time.Time
	AdditionalData *string
	// ClearAdditionalData nulls additional_data and takes precedence over AdditionalData.
	ClearAdditionalData bool
}

func (s *ContactService) List(ctx context.Context, ownerID string, skip, limit int) ([]entity.Contact, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultContactLimit
	}
	if limit > MaxContactLimit {
		limit = MaxContactLimit
	}
	return s.Repo.List(ctx, ownerID, skip, limit)
}

func (s *ContactService) Get(ctx context.Context, ownerID, id string) (*entity.Contact, error) {
	c, err := s.Repo.GetByID(ctx, ownerID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrContactNotFound
	}
	return c, err
}

func (s *ContactService) Create(ctx context.Context, ownerID string, in ContactInput) (*entity.Contact, error) {
	if err := s.ensureEmailFree(ctx, ownerID, in.Email, ""); err != nil {
		return nil, err
	}
	c := &entity.Contact{
		OwnerID:        ownerID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       in.Birthday,
		AdditionalData: in.AdditionalData,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrContactEmailExists
		}
		return nil, err
	}
	s.index(ctx, c)
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, ownerID, id string, p ContactPatch) (*entity.Contact, error) {
	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p.Email != nil {
		if err := s.ensureEmailFree(ctx, ownerID, *p.Email, id); err != nil {
			return nil, err
		}
		c.Email = *p.Email
	}
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Birthday != nil {
		c.Birthday = *p.Birthday
	}
	switch {
	case p.ClearAdditionalData:
		c.AdditionalData = nil
	case p.AdditionalData != nil:
		c.AdditionalData = p.AdditionalData
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrContactNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrContactEmailExists
		}
		return nil, err
	}
	s.index(ctx, c)
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	if s.Index != nil {
		c, cancel := context.WithTimeout(ctx, indexTimeout)
		defer cancel()
		if err := s.Index.Remove(c, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", id).Warn("search index removal failed")
		}
	}
	return nil
}

// Search resolves index hits back through the repository so results are
// always owned by ownerID and current.
func (s *ContactService) Search(ctx context.Context, ownerID, q string, size int) ([]entity.Contact, error) {
	if s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	if size <= 0 || size > 50 {
		size = DefaultContactLimit
	}
	c, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	ids, err := s.Index.Search(c, ownerID, q, size)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Contact, 0, len(ids))
	for _, id := range ids {
		contact, err := s.Repo.GetByID(ctx, ownerID, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *contact)
	}
	return out, nil
}

func (s *ContactService) ensureEmailFree(ctx context.Context, ownerID, email, selfID string) error {
	existing, err := s.Repo.GetByEmail(ctx, ownerID, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrContactEmailExists
	}
	return nil
}

func (s *ContactService) index(ctx context.Context, contact *entity.Contact) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	if err := s.Index.Index(c, contact); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("contact_id", contact.ID).Warn("search index failed")
	}
}
