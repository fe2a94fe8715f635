package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
	"github.com/oksasatya/contacts-api/pkg/helpers"
)

const (
	TokenTypeBearer  = "bearer"
	mailSendTimeout  = 15 * time.Second
	resetQueryParam  = "token="
	confirmEmailPath = "/api/auth/confirmed_email/"
)

// Links holds the public URLs embedded in account emails.
type Links struct {
	BaseURL          string // confirmation links point at this API
	ResetPasswordURL string // front-end page receiving ?token=
}

func (l Links) confirmURL(token string) string {
	return strings.TrimRight(l.BaseURL, "/") + confirmEmailPath + token
}

func (l Links) resetURL(token string) string {
	sep := "?"
	if strings.Contains(l.ResetPasswordURL, "?") {
		sep = "&"
	}
	return l.ResetPasswordURL + sep + resetQueryParam + token
}

// AuthService drives registration, login, refresh, email confirmation and
// password reset.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Hasher *helpers.Hasher
	Cache  *SessionCache
	Mailer Mailer
	Logger *logrus.Logger
	Links  Links

	wg sync.WaitGroup
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
	TokenType          string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.Hasher, cache *SessionCache, mailer Mailer, logger *logrus.Logger, links Links) *AuthService {
	return &AuthService{
		Users:  users,
		JWT:    jwt,
		Hasher: hasher,
		Cache:  cache,
		Mailer: mailer,
		Logger: logger,
		Links:  links,
	}
}

// Register creates an unconfirmed account and sends the confirmation email in
// the background. The returned user carries no password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if taken, err := s.exists(ctx, s.Users.GetByEmail, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.exists(ctx, s.Users.GetByUsername, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	role := entity.RoleUser
	if in.Role != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		role = r
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}
	avatar := helpers.GravatarURL(in.Email)
	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		AvatarURL:    &avatar,
		Role:         role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// lost a race with a concurrent registration
			if taken, _ := s.exists(ctx, s.Users.GetByEmail, in.Email); taken {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.sendConfirmation(u)

	out := *u
	out.PasswordHash = ""
	return &out, nil
}

// Login checks credentials and confirmation, issues a token pair, stores the
// refresh token on the account and warms the session cache. Concurrent logins
// race on the stored refresh token; the last write wins.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !s.Hasher.Verify(ctx, password, u.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !u.Confirmed {
		return TokenPair{}, ErrEmailNotConfirmed
	}

	access, aexp, err := s.JWT.GenerateAccessToken(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	if err := s.Users.SetRefreshToken(ctx, u.ID, &refresh); err != nil {
		return TokenPair{}, err
	}
	u.RefreshToken = &refresh

	if err := s.Cache.Put(ctx, entity.IdentityFromUser(u)); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", u.Username).Warn("session cache population failed")
		}
	} else if s.Logger != nil {
		s.Logger.WithField("username", u.Username).Debug("session cached")
	}

	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
		TokenType:          TokenTypeBearer,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must be the one stored on the account; it is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	u, err := s.Users.GetByUsername(ctx, claims.Subject)
	if errors.Is(err, repo.ErrNotFound) {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return TokenPair{}, err
	}
	if u.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*u.RefreshToken), []byte(refreshToken)) != 1 {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	access, aexp, err := s.JWT.GenerateAccessToken(u.Username)
	if err != nil {
		return TokenPair{}, err
	}
	var rexp time.Time
	if claims.ExpiresAt != nil {
		rexp = claims.ExpiresAt.Time
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: rexp,
		TokenType:          TokenTypeBearer,
	}, nil
}

// ConfirmEmail marks the account named by the token's subject as confirmed.
// It reports whether the account was already confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	claims, err := s.JWT.Parse(token, helpers.EmailToken)
	if err != nil {
		return false, ErrInvalidEmailToken
	}
	u, err := s.Users.GetByEmail(ctx, claims.Subject)
	if errors.Is(err, repo.ErrNotFound) {
		return false, ErrVerification
	}
	if err != nil {
		return false, err
	}
	if u.Confirmed {
		return true, nil
	}
	if err := s.Users.SetConfirmed(ctx, u.Email); err != nil {
		return false, err
	}
	return false, nil
}

// RequestConfirmationEmail resends the confirmation email to an unconfirmed
// account. Unknown and already confirmed addresses are silently ignored.
func (s *AuthService) RequestConfirmationEmail(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !u.Confirmed {
		s.sendConfirmation(u)
	}
	return nil
}

// RequestPasswordReset mails a password_reset scoped link when the address
// belongs to an account. The outcome is the same either way.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token, exp, err := s.JWT.GenerateEmailToken(u.Email, helpers.ScopePasswordReset)
	if err != nil {
		return err
	}
	s.sendAsync(TemplateResetPassword, u.Email, map[string]any{
		"Username":  u.Username,
		"ResetURL":  s.Links.resetURL(token),
		"ExpiresAt": exp.UTC(),
	})
	return nil
}

// ResetPassword overwrites the password hash. Outstanding access and refresh
// tokens and cached snapshots stay valid until they expire.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.JWT.ParseResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if len(newPassword) > helpers.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	u, err := s.Users.GetByEmail(ctx, claims.Subject)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrResetUserNotFound
	}
	if err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	return s.Users.SetPasswordHash(ctx, u.ID, hash)
}

// Wait blocks until background email dispatches finish.
func (s *AuthService) Wait() { s.wg.Wait() }

func (s *AuthService) sendConfirmation(u *entity.User) {
	token, exp, err := s.JWT.GenerateEmailToken(u.Email, "")
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Error("generate email token failed")
		}
		return
	}
	s.sendAsync(TemplateVerifyEmail, u.Email, map[string]any{
		"Username":  u.Username,
		"VerifyURL": s.Links.confirmURL(token),
		"ExpiresAt": exp.UTC(),
	})
}

// sendAsync detaches delivery from the request; failures are only logged.
func (s *AuthService) sendAsync(template, to string, vars map[string]any) {
	if s.Mailer == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()
		if err := s.Mailer.Send(ctx, template, to, vars); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"template": template, "to": to}).Error("email sending failed")
		}
	}()
}

func (s *AuthService) exists(ctx context.Context, get func(context.Context, string) (*entity.User, error), key string) (bool, error) {
	_, err := get(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
