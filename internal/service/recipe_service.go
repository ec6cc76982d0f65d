// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"ladle/internal/middleware"
	"ladle/internal/models"
	"ladle/internal/observability"
	"ladle/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	// Register decoders for upload validation.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const maxImageUploadBytes = 10 * 1024 * 1024

// AttrInput is a nested tag or ingredient reference in a recipe payload.
type AttrInput struct {
	Name string `json:"name"`
}

// CreateRecipeInput carries a validated recipe creation payload. The acting
// user is always an explicit argument; nothing here is read from ambient
// request state.
type CreateRecipeInput struct {
	UserID      uint
	Title       string
	Description string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
	Tags        []AttrInput
	Ingredients []AttrInput
}

// UpdateRecipeInput carries a recipe update payload. Nil pointers mean the
// field was absent: scalar fields keep their value and attribute sets stay
// untouched. A present-but-empty Tags/Ingredients slice clears all links.
type UpdateRecipeInput struct {
	UserID      uint
	RecipeID    uint
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
	Tags        *[]AttrInput
	Ingredients *[]AttrInput
}

// RecipeService owns recipe writes, including tag/ingredient reconciliation,
// and delegates reads to the owner-scoped repository queries.
type RecipeService struct {
	db             *gorm.DB
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	mediaRoot      string
}

// NewRecipeService creates a new RecipeService. The db handle is used only
// to open the transaction that makes each multi-step write atomic.
func NewRecipeService(
	db *gorm.DB,
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	mediaRoot string,
) *RecipeService {
	return &RecipeService{
		db:             db,
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		mediaRoot:      mediaRoot,
	}
}

// validateAttrs rejects nameless attribute entries before any store mutation.
func validateAttrs(kind string, attrs []AttrInput) error {
	for _, a := range attrs {
		if strings.TrimSpace(a.Name) == "" {
			return models.NewValidationError(fmt.Sprintf("%s name must not be empty", kind))
		}
	}
	return nil
}

// reconcileTags resolves each name to an existing or new tag owned by the
// recipe's user and links it to the recipe. Lookup and linking are both
// idempotent, so duplicate names within one payload converge to a single
// stored row and a single link.
func (s *RecipeService) reconcileTags(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, tags []AttrInput) error {
	recipes := s.recipeRepo.WithTx(tx)
	tagRepo := s.tagRepo.WithTx(tx)
	for _, in := range tags {
		tag, created, err := tagRepo.GetOrCreate(ctx, recipe.UserID, in.Name)
		if err != nil {
			return err
		}
		outcome := "reused"
		if created {
			outcome = "created"
		}
		middleware.ReconciledAttributes.WithLabelValues("tag", outcome).Inc()
		if err := recipes.AppendTag(ctx, recipe, tag); err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) reconcileIngredients(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, ingredients []AttrInput) error {
	recipes := s.recipeRepo.WithTx(tx)
	ingredientRepo := s.ingredientRepo.WithTx(tx)
	for _, in := range ingredients {
		ingredient, created, err := ingredientRepo.GetOrCreate(ctx, recipe.UserID, in.Name)
		if err != nil {
			return err
		}
		outcome := "reused"
		if created {
			outcome = "created"
		}
		middleware.ReconciledAttributes.WithLabelValues("ingredient", outcome).Inc()
		if err := recipes.AppendIngredient(ctx, recipe, ingredient); err != nil {
			return err
		}
	}
	return nil
}

// Create persists a new recipe and reconciles its tag and ingredient lists
// within a single transaction.
func (s *RecipeService) Create(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.TimeMinutes < 0 {
		return nil, models.NewValidationError("time_minutes must not be negative")
	}
	if in.Price.IsNegative() {
		return nil, models.NewValidationError("price must not be negative")
	}
	if err := validateAttrs("tag", in.Tags); err != nil {
		return nil, err
	}
	if err := validateAttrs("ingredient", in.Ingredients); err != nil {
		return nil, err
	}

	var recipeID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := &models.Recipe{
			UserID:      in.UserID,
			Title:       in.Title,
			Description: in.Description,
			TimeMinutes: in.TimeMinutes,
			Price:       in.Price,
			Link:        in.Link,
		}
		if err := s.recipeRepo.WithTx(tx).Create(ctx, recipe); err != nil {
			return err
		}
		if err := s.reconcileTags(ctx, tx, recipe, in.Tags); err != nil {
			return err
		}
		if err := s.reconcileIngredients(ctx, tx, recipe, in.Ingredients); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}

	observability.AddTraceAttributes(ctx,
		attribute.Int("recipe.id", int(recipeID)),
		attribute.Int("recipe.tags", len(in.Tags)),
		attribute.Int("recipe.ingredients", len(in.Ingredients)),
	)

	return s.recipeRepo.GetByOwner(ctx, in.UserID, recipeID)
}

// Update applies a partial or full update. A present tags or ingredients
// field fully replaces the corresponding link set; an absent field leaves it
// alone. Ownership cannot change here: there is no user field to apply.
func (s *RecipeService) Update(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, models.NewValidationError("Title must not be empty")
	}
	if in.TimeMinutes != nil && *in.TimeMinutes < 0 {
		return nil, models.NewValidationError("time_minutes must not be negative")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, models.NewValidationError("price must not be negative")
	}
	if in.Tags != nil {
		if err := validateAttrs("tag", *in.Tags); err != nil {
			return nil, err
		}
	}
	if in.Ingredients != nil {
		if err := validateAttrs("ingredient", *in.Ingredients); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipes := s.recipeRepo.WithTx(tx)
		recipe, err := recipes.GetByOwner(ctx, in.UserID, in.RecipeID)
		if err != nil {
			return err
		}

		if in.Tags != nil {
			if err := recipes.ClearTags(ctx, recipe); err != nil {
				return err
			}
			if err := s.reconcileTags(ctx, tx, recipe, *in.Tags); err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			if err := recipes.ClearIngredients(ctx, recipe); err != nil {
				return err
			}
			if err := s.reconcileIngredients(ctx, tx, recipe, *in.Ingredients); err != nil {
				return err
			}
		}

		if in.Title != nil {
			recipe.Title = *in.Title
		}
		if in.Description != nil {
			recipe.Description = *in.Description
		}
		if in.TimeMinutes != nil {
			recipe.TimeMinutes = *in.TimeMinutes
		}
		if in.Price != nil {
			recipe.Price = *in.Price
		}
		if in.Link != nil {
			recipe.Link = *in.Link
		}

		return recipes.Save(ctx, recipe)
	})
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}

	return s.recipeRepo.GetByOwner(ctx, in.UserID, in.RecipeID)
}

// List returns the user's recipes with optional tag/ingredient ID filters.
func (s *RecipeService) List(ctx context.Context, userID uint, tagIDs, ingredientIDs []uint) ([]*models.Recipe, error) {
	return s.recipeRepo.ListByOwner(ctx, userID, tagIDs, ingredientIDs)
}

// Get returns one of the user's recipes by ID.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByOwner(ctx, userID, recipeID)
}

// Delete removes one of the user's recipes along with its link rows.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	return s.recipeRepo.Delete(ctx, userID, recipeID)
}

// UploadImage validates the uploaded bytes decode as an image, stores them
// under the media root, and records the stored path on the recipe.
func (s *RecipeService) UploadImage(ctx context.Context, userID, recipeID uint, filename string, content []byte) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByOwner(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > maxImageUploadBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxImageUploadBytes/(1024*1024)))
	}

	_, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = "." + format
	}
	rel := filepath.Join("uploads", "recipe", uuid.New().String()+ext)
	abs := filepath.Join(s.mediaRoot, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return nil, models.NewInternalError(err)
	}

	recipe.Image = rel
	if err := s.recipeRepo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}
