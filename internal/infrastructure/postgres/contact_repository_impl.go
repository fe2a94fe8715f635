package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/internal/domain/repository"
)

const contactColumns = `id, owner_id, first_name, last_name, email, phone_number, birthday, additional_data, created_at, updated_at`

type ContactRepository struct {
	db DB
}

func NewContactRepository(db DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) List(ctx context.Context, ownerID string, skip, limit int) ([]entity.Contact, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE owner_id = $1
		ORDER BY created_at, id
		OFFSET $2 LIMIT $3
	`, ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id string) (*entity.Contact, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	return scanContact(row)
}

func (r *ContactRepository) GetByEmail(ctx context.Context, ownerID, email string) (*entity.Contact, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 AND email = $2
	`, ownerID, email)
	return scanContact(row)
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO contacts (owner_id, first_name, last_name, email, phone_number, birthday, additional_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.OwnerID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, c.AdditionalData)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	c.UpdatedAt = time.Now()
	return affectOne(r.db.Exec(ctx, `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
		    birthday = $5, additional_data = $6, updated_at = $7
		WHERE owner_id = $8 AND id = $9
	`, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, c.AdditionalData, c.UpdatedAt, c.OwnerID, c.ID))
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	return affectOne(r.db.Exec(ctx, `DELETE FROM contacts WHERE owner_id = $1 AND id = $2`, ownerID, id))
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	c := &entity.Contact{}
	if err := row.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Birthday, &c.AdditionalData, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
