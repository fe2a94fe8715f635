package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, confirmed, refresh_token, avatar_url, role, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, confirmed, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.Confirmed, u.AvatarURL, string(u.Role))

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

// getBy is only called with the fixed column names above.
func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	return scanUser(row)
}

func (r *UserRepository) SetConfirmed(ctx context.Context, email string) error {
	return affectOne(r.db.Exec(ctx, `
		UPDATE users SET confirmed = TRUE, updated_at = $1 WHERE email = $2
	`, time.Now(), email))
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	return affectOne(r.db.Exec(ctx, `
		UPDATE users SET refresh_token = $1, updated_at = $2 WHERE id = $3
	`, token, time.Now(), userID))
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, userID, hash string) error {
	return affectOne(r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3
	`, hash, time.Now(), userID))
}

func (r *UserRepository) SetAvatar(ctx context.Context, userID, url string) error {
	return affectOne(r.db.Exec(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = $2 WHERE id = $3
	`, url, time.Now(), userID))
}

func (r *UserRepository) SetRole(ctx context.Context, userID string, role entity.Role) error {
	return affectOne(r.db.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = $2 WHERE id = $3
	`, string(role), time.Now(), userID))
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Confirmed,
		&u.RefreshToken, &u.AvatarURL, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	parsed, err := entity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
