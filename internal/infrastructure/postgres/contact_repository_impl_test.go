package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/internal/domain/repository"
)

var contactCols = []string{"id", "owner_id", "first_name", "last_name", "email", "phone_number", "birthday", "additional_data", "created_at", "updated_at"}

func TestContactRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)
	now := time.Now()
	bday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM contacts\s+WHERE owner_id = \$1`).
		WithArgs("owner", 0, 10).
		WillReturnRows(mock.NewRows(contactCols).
			AddRow("c-1", "owner", "Jane", "Doe", "jane@example.com", "12345", bday, strPtr("friend"), now, now).
			AddRow("c-2", "owner", "John", "Doe", "john@example.com", "67890", bday, (*string)(nil), now, now))

	got, err := repo.List(context.Background(), "owner", 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane", got[0].FirstName)
	require.NotNil(t, got[0].AdditionalData)
	assert.Equal(t, "friend", *got[0].AdditionalData)
	assert.Nil(t, got[1].AdditionalData)
	assert.Equal(t, bday, got[1].Birthday)
}

func TestContactRepository_ListEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)

	mock.ExpectQuery(`FROM contacts`).
		WithArgs("owner", 20, 10).
		WillReturnRows(mock.NewRows(contactCols))

	got, err := repo.List(context.Background(), "owner", 20, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestContactRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)
	now := time.Now()
	c := &entity.Contact{OwnerID: "owner", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: "12345", Birthday: now}

	mock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs("owner", "Jane", "Doe", "jane@example.com", "12345", now, c.AdditionalData).
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("c-1", now, now))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, "c-1", c.ID)
}

func TestContactRepository_UpdateAndDeleteScopedToOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)
	c := &entity.Contact{ID: "c-1", OwnerID: "intruder", FirstName: "Jane"}

	mock.ExpectExec(`UPDATE contacts`).
		WithArgs("Jane", "", "", "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "intruder", "c-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM contacts`).
		WithArgs("intruder", "c-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM contacts`).
		WithArgs("owner", "c-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.ErrorIs(t, repo.Update(context.Background(), c), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "intruder", "c-1"), repository.ErrNotFound)
	assert.NoError(t, repo.Delete(context.Background(), "owner", "c-1"))
}
