package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, expiry, malformed input and kind mismatches.
var ErrInvalidToken = errors.New("invalid token")

// TokenKind selects the signing secret and the claims checked on parse.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
	EmailToken
)

const (
	refreshTokenType     = "refresh"
	ScopePasswordReset   = "password_reset"
	defaultAccessTTL     = time.Hour
	defaultRefreshTTL    = 10080 * time.Minute
	defaultEmailTokenTTL = 7 * 24 * time.Hour
)

// JWTManager handles generation and validation of JWT tokens.
// Access and email tokens share AccessSecret; refresh tokens use RefreshSecret.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	EmailTTL      time.Duration

	now func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL, emailTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if emailTTL <= 0 {
		emailTTL = defaultEmailTokenTTL
	}
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		EmailTTL:      emailTTL,
		now:           time.Now,
	}
}

type Claims struct {
	TokenType string `json:"token_type,omitempty"`
	Scope     string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues {sub, exp} signed with the access secret.
func (m *JWTManager) GenerateAccessToken(subject string) (string, time.Time, error) {
	exp := m.now().Add(m.AccessTTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := m.sign(claims, m.AccessSecret)
	return s, exp, err
}

// GenerateRefreshToken issues {sub, token_type: "refresh", exp} signed with the refresh secret.
func (m *JWTManager) GenerateRefreshToken(subject string) (string, time.Time, error) {
	exp := m.now().Add(m.RefreshTTL)
	claims := &Claims{
		TokenType: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := m.sign(claims, m.RefreshSecret)
	return s, exp, err
}

// GenerateEmailToken issues a capability token for emailed links. scope may be
// empty for confirmation links.
func (m *JWTManager) GenerateEmailToken(subject, scope string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.EmailTTL)
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := m.sign(claims, m.AccessSecret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.Parse(tokenStr, AccessToken)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return m.Parse(tokenStr, RefreshToken)
}

// ParseResetToken accepts only email tokens scoped to password_reset.
func (m *JWTManager) ParseResetToken(tokenStr string) (*Claims, error) {
	claims, err := m.Parse(tokenStr, EmailToken)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopePasswordReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Parse verifies signature and expiry with the secret for kind. Refresh tokens
// must also carry token_type "refresh". Every token must name a subject.
func (m *JWTManager) Parse(tokenStr string, kind TokenKind) (*Claims, error) {
	secret := m.AccessSecret
	if kind == RefreshToken {
		secret = m.RefreshSecret
	}
	claims, err := parseToken(tokenStr, secret, m.now)
	if err != nil {
		return nil, err
	}
	if kind == RefreshToken && claims.TokenType != refreshTokenType {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) sign(claims *Claims, secret []byte) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func parseToken(tokenStr string, secret []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
