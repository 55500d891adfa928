package repository

import (
	"database/sql"
	"testing"
	"time"

	"growest_connect/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"user_id", "full_name", "role", "bio", "sector", "location", "updated_at"}).
		AddRow("user-1", "Chidi Eze", "investor", "Angel investor", "technology", "Lagos", time.Now())

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("user-1").
		WillReturnRows(rows)

	p, err := GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInvestor, p.Role)
	assert.Equal(t, "Chidi Eze", p.FullName)
	assert.Equal(t, "technology", p.Sector)
}

func TestGetProfileNotFound(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := GetProfile("ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetProfileNullableFields(t *testing.T) {
	mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"user_id", "full_name", "role", "bio", "sector", "location", "updated_at"}).
		AddRow("user-2", "Ngozi Ude", "entrepreneur", nil, nil, nil, time.Now())

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("user-2").
		WillReturnRows(rows)

	p, err := GetProfile("user-2")
	require.NoError(t, err)
	assert.Empty(t, p.Bio)
	assert.Empty(t, p.Sector)
	assert.Empty(t, p.Location)
}
