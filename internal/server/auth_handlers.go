package server

import (
	"errors"

	"ladle/internal/middleware"
	"ladle/internal/models"
	"ladle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// userProfile is the public shape of an account. The credential never
// leaves the server.
type userProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func profileOf(u *models.User) userProfile {
	return userProfile{Email: u.Email, Name: u.Name}
}

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(profileOf(user))
}

// CreateToken handles POST /api/users/token. A failed credential check is a
// client error on this endpoint, not a 401: the caller has no token yet.
func (s *Server) CreateToken(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrCodeUnauthorized {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "token issued", "user_id", user.ID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}

// ResetPassword handles POST /api/users/reset-password. The response never
// reveals whether the email belongs to an account.
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email address is required"))
	}

	if err := s.userService.ResetPassword(c.UserContext(), req.Email); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrCodeNotFound {
			// fall through to the generic acknowledgement
		} else {
			return respondServiceError(c, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the email exists, a new password has been sent",
	})
}
