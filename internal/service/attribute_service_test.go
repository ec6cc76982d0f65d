package service

import (
	"context"
	"testing"

	"ladle/internal/database"
	"ladle/internal/models"
	"ladle/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAttributeService(t *testing.T) (*AttributeService, *gorm.DB, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	user, err := models.NewUser("cook@example.com", "Cook", "testpass")
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)

	svc := NewAttributeService(
		repository.NewTagRepository(db),
		repository.NewIngredientRepository(db),
	)
	return svc, db, user
}

func TestUpdateTag_Rename(t *testing.T) {
	t.Parallel()

	svc, db, user := setupAttributeService(t)
	ctx := context.Background()

	tag := &models.Tag{UserID: user.ID, Name: "Veggie"}
	require.NoError(t, db.Create(tag).Error)

	updated, err := svc.UpdateTag(ctx, user.ID, tag.ID, "Vegetarian")
	require.NoError(t, err)
	assert.Equal(t, "Vegetarian", updated.Name)
}

func TestUpdateTag_BlankName(t *testing.T) {
	t.Parallel()

	svc, db, user := setupAttributeService(t)

	tag := &models.Tag{UserID: user.ID, Name: "Veggie"}
	require.NoError(t, db.Create(tag).Error)

	_, err := svc.UpdateTag(context.Background(), user.ID, tag.ID, "   ")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
}

func TestUpdateIngredient_NotOwnerIs404(t *testing.T) {
	t.Parallel()

	svc, db, user := setupAttributeService(t)

	stranger, err := models.NewUser("stranger@example.com", "Stranger", "testpass")
	require.NoError(t, err)
	require.NoError(t, db.Create(stranger).Error)

	ingredient := &models.Ingredient{UserID: user.ID, Name: "Garlic"}
	require.NoError(t, db.Create(ingredient).Error)

	_, err = svc.UpdateIngredient(context.Background(), stranger.ID, ingredient.ID, "Stolen")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
}

func TestDeleteTag(t *testing.T) {
	t.Parallel()

	svc, db, user := setupAttributeService(t)
	ctx := context.Background()

	tag := &models.Tag{UserID: user.ID, Name: "Veggie"}
	require.NoError(t, db.Create(tag).Error)

	require.NoError(t, svc.DeleteTag(ctx, user.ID, tag.ID))

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// deleting again reports not found
	err := svc.DeleteTag(ctx, user.ID, tag.ID)
	require.Error(t, err)
}
