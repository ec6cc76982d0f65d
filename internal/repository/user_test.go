package repository

import (
	"context"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := models.NewUser("dup@example.com", "First", "testpass")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := models.NewUser("dup@example.com", "Second", "testpass")
	require.NoError(t, err)

	err = repo.Create(ctx, second)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
}

func TestUserGetByEmail_MissingIsNilNil(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserList_Pagination(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "a@example.com")
	createTestUser(t, db, "b@example.com")
	createTestUser(t, db, "c@example.com")

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a@example.com", page[0].Email)

	rest, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c@example.com", rest[0].Email)
}
