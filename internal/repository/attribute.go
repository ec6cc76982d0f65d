package repository

import (
	"context"
	"errors"

	"ladle/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for user-owned tags.
// GetOrCreate implements the (user, name) natural-key lookup used by recipe
// reconciliation; the boolean result reports whether a row was created.
type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository

	ListByOwner(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error)
	GetByOwner(ctx context.Context, userID, id uint) (*models.Tag, error)
	GetOrCreate(ctx context.Context, userID uint, name string) (*models.Tag, bool, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, userID, id uint) error
}

// IngredientRepository mirrors TagRepository for the ingredient entity.
type IngredientRepository interface {
	WithTx(tx *gorm.DB) IngredientRepository

	ListByOwner(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error)
	GetByOwner(ctx context.Context, userID, id uint) (*models.Ingredient, error)
	GetOrCreate(ctx context.Context, userID uint, name string) (*models.Ingredient, bool, error)
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, userID, id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

// ListByOwner returns the user's tags ordered by descending name. With
// assignedOnly, only tags linked to at least one recipe are returned, each
// exactly once no matter how many recipes share it.
func (r *tagRepository) ListByOwner(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("tags.user_id = ?", userID)

	if assignedOnly {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id")
	}

	var tags []models.Tag
	if err := q.Distinct("tags.*").Order("tags.name DESC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) GetByOwner(ctx context.Context, userID, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&tag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tag", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

func (r *tagRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*models.Tag, bool, error) {
	var tag models.Tag
	res := r.db.WithContext(ctx).
		Where(&models.Tag{UserID: userID, Name: name}).
		FirstOrCreate(&tag)
	if res.Error != nil {
		return nil, false, models.NewInternalError(res.Error)
	}
	return &tag, res.RowsAffected > 0, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Save(tag).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the tag and any recipe link rows pointing at it.
func (r *tagRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.Tag{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Tag", id)
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository returns a new IngredientRepository implementation.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) WithTx(tx *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: tx}
}

func (r *ingredientRepository) ListByOwner(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("ingrediants.user_id = ?", userID)

	if assignedOnly {
		q = q.Joins("JOIN recipe_ingrediants ON recipe_ingrediants.ingredient_id = ingrediants.id")
	}

	var ingredients []models.Ingredient
	if err := q.Distinct("ingrediants.*").Order("ingrediants.name DESC").Find(&ingredients).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetByOwner(ctx context.Context, userID, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ingredient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Ingredient", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	res := r.db.WithContext(ctx).
		Where(&models.Ingredient{UserID: userID, Name: name}).
		FirstOrCreate(&ingredient)
	if res.Error != nil {
		return nil, false, models.NewInternalError(res.Error)
	}
	return &ingredient, res.RowsAffected > 0, nil
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Save(ingredient).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ingredientRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.Ingredient{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Ingredient", id)
		}
		if err := tx.Exec("DELETE FROM recipe_ingrediants WHERE ingredient_id = ?", id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}
