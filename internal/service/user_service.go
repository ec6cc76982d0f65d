package service

import (
	"context"
	"fmt"
	"time"

	"ladle/internal/mail"
	"ladle/internal/models"
	"ladle/internal/repository"
	"ladle/internal/validation"

	"github.com/google/uuid"
)

// UserService owns account registration, credential checks, and profile
// management.
type UserService struct {
	userRepo repository.UserRepository
	mailer   mail.Sender
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateProfileInput is the payload for updating the acting user's profile.
// Nil pointers mean the field was absent from the request.
type UpdateProfileInput struct {
	UserID   uint
	Email    *string
	Name     *string
	Password *string
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, mailer mail.Sender) *UserService {
	return &UserService{userRepo: userRepo, mailer: mailer}
}

// Register creates a new account with a normalized email and hashed
// credential. A taken email or a short password is a validation error.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("A user with this email already exists")
	}

	user, err := models.NewUser(in.Email, in.Name, in.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credential for the given email and records the
// login time. It returns an unauthorized error on any mismatch without
// revealing which part failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, models.NewUnauthorizedError("Unable to authenticate with provided credentials")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns the acting user's account.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the acting user's own account.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = models.NormalizeEmail(*in.Email)
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if err := user.SetPassword(*in.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword generates a fresh random credential for the account with the
// given email, stores its hash, and mails the new value to the user.
func (s *UserService) ResetPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		// Callers mask this so responses never confirm whether an
		// account exists.
		return &models.AppError{
			Code:    models.ErrCodeNotFound,
			Message: "No account registered with this email",
		}
	}

	newPassword := uuid.New().String()[:10]
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	body := fmt.Sprintf("Your new password is: %s\nUse it to log in.", newPassword)
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListUsers returns a page of all accounts, ordered by ID. Callers gate this
// behind staff checks.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}
