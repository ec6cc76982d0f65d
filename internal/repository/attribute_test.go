package repository

import (
	"context"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagGetOrCreate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	tag, created, err := repo.GetOrCreate(ctx, owner.ID, "Vegan")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, tag.ID)

	// same (user, name) resolves to the existing row
	again, created, err := repo.GetOrCreate(ctx, owner.ID, "Vegan")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tag.ID, again.ID)

	// same name under a different user is a distinct row
	theirs, created, err := repo.GetOrCreate(ctx, other.ID, "Vegan")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, tag.ID, theirs.ID)
}

func TestTagListByOwner_NameDescending(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	for _, name := range []string{"Breakfast", "Vegan", "Dessert"} {
		_, _, err := repo.GetOrCreate(ctx, owner.ID, name)
		require.NoError(t, err)
	}
	_, _, err := repo.GetOrCreate(ctx, other.ID, "Zesty")
	require.NoError(t, err)

	tags, err := repo.ListByOwner(ctx, owner.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)
	assert.Equal(t, "Breakfast", tags[2].Name)
}

func TestTagListByOwner_AssignedOnly(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	tagRepo := NewTagRepository(db)
	recipeRepo := NewRecipeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	recipeA := createTestRecipe(t, db, owner.ID, "Curry")
	recipeB := createTestRecipe(t, db, owner.ID, "Soup")

	assigned, _, err := tagRepo.GetOrCreate(ctx, owner.ID, "Dinner")
	require.NoError(t, err)
	_, _, err = tagRepo.GetOrCreate(ctx, owner.ID, "Unused")
	require.NoError(t, err)

	// linked to two recipes to prove the list stays deduplicated
	require.NoError(t, recipeRepo.AppendTag(ctx, recipeA, assigned))
	require.NoError(t, recipeRepo.AppendTag(ctx, recipeB, assigned))

	tags, err := tagRepo.ListByOwner(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Dinner", tags[0].Name)

	tags, err = tagRepo.ListByOwner(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestTagDelete_RemovesRecipeLinks(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	tagRepo := NewTagRepository(db)
	recipeRepo := NewRecipeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	recipe := createTestRecipe(t, db, owner.ID, "Curry")

	tag, _, err := tagRepo.GetOrCreate(ctx, owner.ID, "Vegan")
	require.NoError(t, err)
	require.NoError(t, recipeRepo.AppendTag(ctx, recipe, tag))

	require.NoError(t, tagRepo.Delete(ctx, owner.ID, tag.ID))

	var linkCount int64
	require.NoError(t, db.Table("recipe_tags").Where("tag_id = ?", tag.ID).Count(&linkCount).Error)
	assert.Equal(t, int64(0), linkCount)

	reloaded, err := recipeRepo.GetByOwner(ctx, owner.ID, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Tags)
}

func TestTagDelete_NotOwner(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	tag, _, err := repo.GetOrCreate(ctx, owner.ID, "Vegan")
	require.NoError(t, err)

	err = repo.Delete(ctx, other.ID, tag.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
}

func TestIngredientGetOrCreate_And_AssignedOnly(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ingredientRepo := NewIngredientRepository(db)
	recipeRepo := NewRecipeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	recipe := createTestRecipe(t, db, owner.ID, "Curry")

	garlic, created, err := ingredientRepo.GetOrCreate(ctx, owner.ID, "Garlic")
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = ingredientRepo.GetOrCreate(ctx, owner.ID, "Garlic")
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = ingredientRepo.GetOrCreate(ctx, owner.ID, "Salt")
	require.NoError(t, err)

	require.NoError(t, recipeRepo.AppendIngredient(ctx, recipe, garlic))

	assigned, err := ingredientRepo.ListByOwner(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Garlic", assigned[0].Name)

	all, err := ingredientRepo.ListByOwner(ctx, owner.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// name descending
	assert.Equal(t, "Salt", all[0].Name)
	assert.Equal(t, "Garlic", all[1].Name)
}

func TestIngredientUpdate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	ingredient, _, err := repo.GetOrCreate(ctx, owner.ID, "Tomatos")
	require.NoError(t, err)

	ingredient.Name = "Tomatoes"
	require.NoError(t, repo.Update(ctx, ingredient))

	reloaded, err := repo.GetByOwner(ctx, owner.ID, ingredient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", reloaded.Name)
}
