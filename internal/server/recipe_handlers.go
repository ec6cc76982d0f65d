package server

import (
	"io"

	"ladle/internal/middleware"
	"ladle/internal/models"
	"ladle/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// createRecipeRequest mirrors the recipe write payload. The ingredient key
// spelling is part of the wire contract.
type createRecipeRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       decimal.Decimal     `json:"price"`
	Link        string              `json:"link"`
	Tags        []service.AttrInput `json:"tags"`
	Ingredients []service.AttrInput `json:"ingrediants"`
}

// updateRecipeRequest distinguishes absent fields (nil) from present ones,
// including present-but-empty attribute lists which clear all links. A "user"
// key in the payload is accepted and dropped: ownership is immutable.
type updateRecipeRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	TimeMinutes *int                 `json:"time_minutes"`
	Price       *decimal.Decimal     `json:"price"`
	Link        *string              `json:"link"`
	Tags        *[]service.AttrInput `json:"tags"`
	Ingredients *[]service.AttrInput `json:"ingrediants"`
}

// CreateRecipe handles POST /api/recipes
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req createRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Create(c.UserContext(), service.CreateRecipeInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "recipe created", "recipe_id", recipe.ID)
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// recipeListItem is the list-view projection of a recipe. Description and
// image belong to the detail view only.
type recipeListItem struct {
	ID          uint                `json:"id"`
	UserID      uint                `json:"user"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       decimal.Decimal     `json:"price"`
	Link        string              `json:"link"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingrediants"`
}

func listItemOf(r *models.Recipe) recipeListItem {
	return recipeListItem{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
}

// ListRecipes handles GET /api/recipes with optional tags/ingrediants
// comma-separated ID filters. Results are owner-scoped, newest first.
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	tagIDs, err := parseIDList(c, "tags")
	if err != nil {
		return nil
	}
	ingredientIDs, err := parseIDList(c, "ingrediants")
	if err != nil {
		return nil
	}

	recipes, err := s.recipeService.List(c.UserContext(), currentUserID(c), tagIDs, ingredientIDs)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]recipeListItem, 0, len(recipes))
	for _, r := range recipes {
		items = append(items, listItemOf(r))
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

// GetRecipe handles GET /api/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(recipe)
}

// UpdateRecipe handles PATCH and PUT /api/recipes/:id. Both verbs run the
// same partial-update path: absent fields are untouched, present attribute
// lists fully replace the linked set.
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Update(c.UserContext(), service.UpdateRecipeInput{
		UserID:      currentUserID(c),
		RecipeID:    id,
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recipeService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "recipe deleted", "recipe_id", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadRecipeImage handles POST /api/recipes/:id/upload-image. Expects a
// multipart form with an "image" file field.
func (s *Server) UploadRecipeImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	recipe, err := s.recipeService.UploadImage(
		c.UserContext(), currentUserID(c), id, fileHeader.Filename, content)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "recipe image uploaded",
		"recipe_id", id, "path", recipe.Image)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":    recipe.ID,
		"image": recipe.Image,
	})
}
