package application

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ---- users ----

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[string]*entity.User
	seq    int
	getErr error

	usernameLookups int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*entity.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.byID {
		if e.Username == u.Username || e.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("u-%d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) find(match func(*entity.User) bool) (*entity.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(func(u *entity.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usernameLookups++
	return f.find(func(u *entity.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(func(u *entity.User) bool { return u.Email == email })
}

func (f *fakeUsers) update(match func(*entity.User) bool, apply func(*entity.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			apply(u)
			return nil
		}
	}
	return repo.ErrNotFound
}

func byID(id string) func(*entity.User) bool { return func(u *entity.User) bool { return u.ID == id } }

func (f *fakeUsers) SetConfirmed(_ context.Context, email string) error {
	return f.update(func(u *entity.User) bool { return u.Email == email }, func(u *entity.User) { u.Confirmed = true })
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, id string, token *string) error {
	return f.update(byID(id), func(u *entity.User) { u.RefreshToken = token })
}

func (f *fakeUsers) SetPasswordHash(_ context.Context, id, hash string) error {
	return f.update(byID(id), func(u *entity.User) { u.PasswordHash = hash })
}

func (f *fakeUsers) SetAvatar(_ context.Context, id, url string) error {
	return f.update(byID(id), func(u *entity.User) { u.AvatarURL = &url })
}

func (f *fakeUsers) SetRole(_ context.Context, id string, role entity.Role) error {
	return f.update(byID(id), func(u *entity.User) { u.Role = role })
}

func (f *fakeUsers) lookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usernameLookups
}

// ---- cache store ----

type fakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	b, ok := s.data[key]
	return b, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

// ---- mailer ----

type sentMail struct {
	Template  string
	Recipient string
	Vars      map[string]any
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, template, recipient string, vars map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Template: template, Recipient: recipient, Vars: vars})
	return m.err
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

// ---- media ----

type fakeMedia struct {
	uploads map[string]string // id -> content type
	deleted []string
	err     error
}

func (m *fakeMedia) Upload(_ context.Context, r io.Reader, id, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	if m.uploads == nil {
		m.uploads = map[string]string{}
	}
	m.uploads[id] = contentType
	return "https://media.test/" + id, nil
}

func (m *fakeMedia) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// ---- contacts ----

type fakeContacts struct {
	mu       sync.Mutex
	items    map[string]*entity.Contact
	seq      int
	lastList [2]int
}

func newFakeContacts() *fakeContacts { return &fakeContacts{items: map[string]*entity.Contact{}} }

func (f *fakeContacts) List(_ context.Context, ownerID string, skip, limit int) ([]entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = [2]int{skip, limit}
	out := []entity.Contact{}
	for _, c := range f.items {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContacts) GetByID(_ context.Context, ownerID, id string) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok || c.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContacts) GetByEmail(_ context.Context, ownerID, email string) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.OwnerID == ownerID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeContacts) Create(_ context.Context, c *entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = fmt.Sprintf("c-%d", f.seq)
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeContacts) Update(_ context.Context, c *entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.items[c.ID]
	if !ok || old.OwnerID != c.OwnerID {
		return repo.ErrNotFound
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeContacts) Delete(_ context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok || c.OwnerID != ownerID {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// ---- search index ----

type fakeIndex struct {
	indexed map[string]bool
	hits    []string
	err     error
}

func (x *fakeIndex) Index(_ context.Context, c *entity.Contact) error {
	if x.err != nil {
		return x.err
	}
	if x.indexed == nil {
		x.indexed = map[string]bool{}
	}
	x.indexed[c.ID] = true
	return nil
}

func (x *fakeIndex) Remove(_ context.Context, id string) error {
	delete(x.indexed, id)
	return x.err
}

func (x *fakeIndex) Search(context.Context, string, string, int) ([]string, error) {
	return x.hits, x.err
}
