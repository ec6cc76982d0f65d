package service

import (
	"context"
	"strings"

	"ladle/internal/models"
	"ladle/internal/repository"
)

// AttributeService owns tag and ingredient listing, rename, and deletion.
// Creation has no endpoint of its own: rows come into existence only through
// recipe reconciliation.
type AttributeService struct {
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
}

// NewAttributeService creates a new AttributeService.
func NewAttributeService(tagRepo repository.TagRepository, ingredientRepo repository.IngredientRepository) *AttributeService {
	return &AttributeService{tagRepo: tagRepo, ingredientRepo: ingredientRepo}
}

// ListTags returns the user's tags, optionally restricted to those assigned
// to at least one recipe.
func (s *AttributeService) ListTags(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error) {
	return s.tagRepo.ListByOwner(ctx, userID, assignedOnly)
}

// UpdateTag renames one of the user's tags.
func (s *AttributeService) UpdateTag(ctx context.Context, userID, tagID uint, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("tag name must not be empty")
	}
	tag, err := s.tagRepo.GetByOwner(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes one of the user's tags and its recipe links.
func (s *AttributeService) DeleteTag(ctx context.Context, userID, tagID uint) error {
	return s.tagRepo.Delete(ctx, userID, tagID)
}

// ListIngredients returns the user's ingredients, optionally restricted to
// those assigned to at least one recipe.
func (s *AttributeService) ListIngredients(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	return s.ingredientRepo.ListByOwner(ctx, userID, assignedOnly)
}

// UpdateIngredient renames one of the user's ingredients.
func (s *AttributeService) UpdateIngredient(ctx context.Context, userID, ingredientID uint, name string) (*models.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("ingredient name must not be empty")
	}
	ingredient, err := s.ingredientRepo.GetByOwner(ctx, userID, ingredientID)
	if err != nil {
		return nil, err
	}
	ingredient.Name = name
	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// DeleteIngredient removes one of the user's ingredients and its recipe links.
func (s *AttributeService) DeleteIngredient(ctx context.Context, userID, ingredientID uint) error {
	return s.ingredientRepo.Delete(ctx, userID, ingredientID)
}
