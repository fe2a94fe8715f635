package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/internal/domain/repository"
)

var userCols = []string{"id", "username", "email", "password_hash", "confirmed", "refresh_token", "avatar_url", "role", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()
	avatar := "https://www.gravatar.com/avatar/x"

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", "hash", false, &avatar, "user").
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("id-1", now, now))

	u := &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", AvatarURL: &avatar, Role: entity.RoleUser}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", "hash", false, pgxmock.AnyArg(), "user").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: entity.RoleUser})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(mock.NewRows(userCols).AddRow(
			"id-1", "alice", "alice@example.com", "hash", true,
			strPtr("refresh"), (*string)(nil), "admin", now, now,
		))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)
	assert.True(t, u.Confirmed)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	require.NotNil(t, u.RefreshToken)
	assert.Equal(t, "refresh", *u.RefreshToken)
	assert.Nil(t, u.AvatarURL)
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UnknownRoleIsRejected(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("id-1").
		WillReturnRows(mock.NewRows(userCols).AddRow(
			"id-1", "alice", "alice@example.com", "hash", true,
			(*string)(nil), (*string)(nil), "moderator", now, now,
		))

	_, err := repo.GetByID(context.Background(), "id-1")
	assert.Error(t, err)
}

func TestUserRepository_SetRefreshToken(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	token := "refresh"

	mock.ExpectExec(`UPDATE users SET refresh_token`).
		WithArgs(&token, pgxmock.AnyArg(), "id-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET refresh_token`).
		WithArgs(&token, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.SetRefreshToken(context.Background(), "id-1", &token))
	assert.ErrorIs(t, repo.SetRefreshToken(context.Background(), "missing", &token), repository.ErrNotFound)
}

func TestUserRepository_SetConfirmedAndRole(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET confirmed = TRUE`).
		WithArgs(pgxmock.AnyArg(), "alice@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET role`).
		WithArgs("admin", pgxmock.AnyArg(), "id-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetConfirmed(context.Background(), "alice@example.com"))
	require.NoError(t, repo.SetRole(context.Background(), "id-1", entity.RoleAdmin))
}
