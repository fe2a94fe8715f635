package application

import "errors"

// Unauthorized
var (
	ErrInvalidCredentials  = errors.New("incorrect username or password")
	ErrEmailNotConfirmed   = errors.New("email address is not confirmed")
	ErrCouldNotValidate    = errors.New("could not validate credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Conflict
var (
	ErrEmailTaken    = errors.New("a user with this email already exists")
	ErrUsernameTaken = errors.New("a user with this username already exists")
)

// BadRequest
var (
	ErrInvalidEmailToken  = errors.New("invalid or expired token")
	ErrVerification       = errors.New("verification error")
	ErrInvalidResetToken  = errors.New("invalid token")
	ErrResetUserNotFound  = errors.New("user not found")
	ErrContactEmailExists = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

var (
	ErrForbidden         = errors.New("only administrators can perform this operation")
	ErrUserNotFound      = errors.New("user not found")
	ErrContactNotFound   = errors.New("contact not found")
	ErrMediaUnavailable  = errors.New("media storage is not configured")
	ErrSearchUnavailable = errors.New("search is not configured")
)
