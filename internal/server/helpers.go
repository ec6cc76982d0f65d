package server

import (
	"strconv"
	"strings"

	"ladle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the HTTP response.
// Handlers return nil when they see it.
var errResponseWritten = fiber.NewError(fiber.StatusOK, "response written")

// parseID extracts and validates a uint path parameter. On failure it writes
// a 400 response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseIDList parses a comma-separated list of IDs from a query parameter.
// An empty parameter yields a nil slice. Any malformed token is a client
// error, so the caller gets errResponseWritten after a 400 is sent.
func parseIDList(c *fiber.Ctx, param string) ([]uint, error) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid "+param+" filter: expected comma-separated IDs"))
			return nil, errResponseWritten
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseAssignedOnly reads the assigned_only query parameter. Only "0", "1",
// or absence are accepted; anything else is a client error, so the caller
// gets errResponseWritten after a 400 is sent.
func parseAssignedOnly(c *fiber.Ctx) (bool, error) {
	switch c.Query("assigned_only") {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	default:
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid assigned_only: expected 0 or 1"))
		return false, errResponseWritten
	}
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx, defaultLimit, maxLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// respondServiceError maps a service-layer error to an HTTP response using
// the error's taxonomy code.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
