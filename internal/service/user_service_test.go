package service

import (
	"context"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, _ uint) (*models.User, error) { return nil, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// mailerStub records sent messages.
type mailerStub struct {
	to      string
	subject string
	body    string
	sent    int
}

func (m *mailerStub) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	m.sent++
	return nil
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
}

func TestRegister_NormalizesEmailDomain(t *testing.T) {
	repo := noopUserRepo()
	var created *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		created = u
		return nil
	}
	svc := NewUserService(repo, &mailerStub{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Test2@Example.COM",
		Name:     "Tester",
		Password: "goodpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test2@example.com", user.Email)
	require.NotNil(t, created)
	assert.NotEqual(t, "goodpass", created.Password)
	assert.True(t, created.CheckPassword("goodpass"))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewUserService(noopUserRepo(), &mailerStub{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ok@example.com",
		Name:     "Tester",
		Password: "pw",
	})
	assertValidationError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: email}, nil
	}
	svc := NewUserService(repo, &mailerStub{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Name:     "Tester",
		Password: "goodpass",
	})
	assertValidationError(t, err)
}

func TestAuthenticate_WrongPasswordIsGeneric(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("realpass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 7, Email: "user@example.com", Password: string(hashed)}, nil
	}
	svc := NewUserService(repo, &mailerStub{})

	_, err = svc.Authenticate(context.Background(), "user@example.com", "wrongpass")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeUnauthorized, appErr.Code)
	// unknown email fails with the same message
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return nil, nil }
	_, err2 := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err2)
	assert.Equal(t, err.Error(), err2.Error())
}

func TestAuthenticate_RecordsLastLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("realpass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 7, Email: "user@example.com", Password: string(hashed)}, nil
	}
	var updated *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		updated = u
		return nil
	}
	svc := NewUserService(repo, &mailerStub{})

	user, err := svc.Authenticate(context.Background(), "user@example.com", "realpass")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	require.NotNil(t, updated)
	assert.Equal(t, user.ID, updated.ID)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	stored := &models.User{ID: 3, Email: "old@example.com", Name: "Old Name"}
	require.NoError(t, stored.SetPassword("oldpass"))

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }
	svc := NewUserService(repo, &mailerStub{})

	newName := "New Name"
	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 3,
		Name:   &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	// untouched fields keep their values
	assert.Equal(t, "old@example.com", user.Email)
	assert.True(t, user.CheckPassword("oldpass"))
}

func TestUpdateProfile_RejectsShortPassword(t *testing.T) {
	stored := &models.User{ID: 3, Email: "old@example.com"}
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }
	svc := NewUserService(repo, &mailerStub{})

	short := "abcd"
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   3,
		Password: &short,
	})
	assertValidationError(t, err)
}

func TestResetPassword_SendsNewCredential(t *testing.T) {
	stored := &models.User{ID: 5, Email: "user@example.com"}
	require.NoError(t, stored.SetPassword("oldpass"))

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return stored, nil }
	mailer := &mailerStub{}
	svc := NewUserService(repo, mailer)

	require.NoError(t, svc.ResetPassword(context.Background(), "user@example.com"))

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "user@example.com", mailer.to)
	assert.Contains(t, mailer.body, "Your new password is")
	// the old credential no longer works
	assert.False(t, stored.CheckPassword("oldpass"))
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	svc := NewUserService(noopUserRepo(), &mailerStub{})

	err := svc.ResetPassword(context.Background(), "nobody@example.com")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
}
