package repository

import (
	"context"
	"errors"

	"ladle/internal/models"

	"gorm.io/gorm"
)

// RecipeRepository defines persistence operations for recipes. Every read
// and write is scoped to the owning user: a recipe belonging to someone
// else behaves exactly like a missing one.
type RecipeRepository interface {
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) RecipeRepository

	Create(ctx context.Context, recipe *models.Recipe) error
	GetByOwner(ctx context.Context, userID, id uint) (*models.Recipe, error)
	ListByOwner(ctx context.Context, userID uint, tagIDs, ingredientIDs []uint) ([]*models.Recipe, error)
	Save(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, userID, id uint) error

	ClearTags(ctx context.Context, recipe *models.Recipe) error
	AppendTag(ctx context.Context, recipe *models.Recipe, tag *models.Tag) error
	ClearIngredients(ctx context.Context, recipe *models.Recipe) error
	AppendIngredient(ctx context.Context, recipe *models.Recipe, ingredient *models.Ingredient) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) WithTx(tx *gorm.DB) RecipeRepository {
	return &recipeRepository{db: tx}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) GetByOwner(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", userID).
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

// ListByOwner returns the user's recipes, optionally restricted to those
// linked to at least one of the given tag or ingredient IDs (intersection
// when both sets are present). Results are deduplicated and ordered most
// recently created first.
func (r *recipeRepository) ListByOwner(ctx context.Context, userID uint, tagIDs, ingredientIDs []uint) ([]*models.Recipe, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("recipes.user_id = ?", userID)

	if len(tagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", tagIDs)
	}
	if len(ingredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingrediants ON recipe_ingrediants.recipe_id = recipes.id").
			Where("recipe_ingrediants.ingredient_id IN ?", ingredientIDs)
	}

	var recipes []*models.Recipe
	err := q.Distinct("recipes.*").
		Order("recipes.id DESC").
		Preload("Tags").
		Preload("Ingredients").
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Save(ctx context.Context, recipe *models.Recipe) error {
	// Omit associations so a Save never rewrites link rows behind the
	// reconciliation engine's back.
	if err := r.db.WithContext(ctx).Omit("Tags", "Ingredients").Save(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the recipe and its tag/ingredient link rows. The tags and
// ingredients themselves are independent entities and survive.
func (r *recipeRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe", id)
			}
			return models.NewInternalError(err)
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *recipeRepository) ClearTags(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Tags").Clear(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AppendTag links a tag to the recipe. Appending an already-linked tag is a no-op.
func (r *recipeRepository) AppendTag(ctx context.Context, recipe *models.Recipe, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Tags").Append(tag); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) ClearIngredients(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Clear(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AppendIngredient links an ingredient to the recipe, idempotently.
func (r *recipeRepository) AppendIngredient(ctx context.Context, recipe *models.Recipe, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Append(ingredient); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
