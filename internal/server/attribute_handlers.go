package server

import (
	"ladle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Attribute handlers cover tags and ingredients. Neither has a create
// endpoint: rows only come into existence through recipe writes.

type renameRequest struct {
	Name string `json:"name"`
}

// ListTags handles GET /api/tags, optionally restricted to tags assigned to
// at least one recipe via assigned_only=1.
func (s *Server) ListTags(c *fiber.Ctx) error {
	assignedOnly, err := parseAssignedOnly(c)
	if err != nil {
		return nil
	}

	tags, err := s.attrService.ListTags(c.UserContext(), currentUserID(c), assignedOnly)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tags)
}

// UpdateTag handles PATCH and PUT /api/tags/:id
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.attrService.UpdateTag(c.UserContext(), currentUserID(c), id, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tag)
}

// DeleteTag handles DELETE /api/tags/:id. Deleting a tag also unlinks it
// from every recipe that referenced it.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.attrService.DeleteTag(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListIngredients handles GET /api/ingrediants
func (s *Server) ListIngredients(c *fiber.Ctx) error {
	assignedOnly, err := parseAssignedOnly(c)
	if err != nil {
		return nil
	}

	ingredients, err := s.attrService.ListIngredients(c.UserContext(), currentUserID(c), assignedOnly)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ingredients)
}

// UpdateIngredient handles PATCH and PUT /api/ingrediants/:id
func (s *Server) UpdateIngredient(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ingredient, err := s.attrService.UpdateIngredient(c.UserContext(), currentUserID(c), id, req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ingredient)
}

// DeleteIngredient handles DELETE /api/ingrediants/:id
func (s *Server) DeleteIngredient(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.attrService.DeleteIngredient(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
