package entity

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization roles. Its string form is the only
// representation used in Postgres and in cached identity snapshots.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored or submitted value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

func (r Role) MarshalText() ([]byte, error) {
	if _, err := ParseRole(string(r)); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash; RefreshToken is the single live refresh
// token for the account, nil when none has been issued.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Confirmed    bool
	RefreshToken *string
	AvatarURL    *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
