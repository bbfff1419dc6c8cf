package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"shortr-be/internal/entities"
	"shortr-be/internal/jwt"
	"shortr-be/internal/models"
	"shortr-be/internal/repository"
	"shortr-be/internal/repository/mocks"
	"shortr-be/internal/service"
)

func newAuthService(t *testing.T) (service.AuthService, *mocks.MockUserRepository, *mocks.MockURLRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	urlRepo := mocks.NewMockURLRepository(ctrl)
	jwtService := jwt.NewJWTService("test-secret", 7*24*time.Hour)
	return service.NewAuthService(userRepo, urlRepo, jwtService), userRepo, urlRepo
}

func storedUser(password string) *entities.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	first := "Ada"
	return &entities.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		FirstName:    &first,
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
}

func TestRegister_Success(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	created := storedUser("hunter22")
	userRepo.EXPECT().
		Create("ada@example.com", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(created, nil)
	userRepo.EXPECT().UpdateLastLogin("user-1").Return(nil)

	resp, err := svc.Register(&models.RegisterRequest{
		Email:           "ada@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		FirstName:       "Ada",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, "Ada", resp.FirstName)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), resp.ExpiresAt, 5*time.Second)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(&models.RegisterRequest{
		Email:           "ada@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter23",
	})
	assert.ErrorIs(t, err, service.ErrPasswordMismatch)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	userRepo.EXPECT().
		Create("ada@example.com", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, repository.ErrEmailTaken)

	_, err := svc.Register(&models.RegisterRequest{
		Email:           "ada@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	userRepo.EXPECT().FindByEmail("ada@example.com").Return(storedUser("hunter22"), nil)
	userRepo.EXPECT().UpdateLastLogin("user-1").Return(nil)

	resp, err := svc.Login(&models.LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	userRepo.EXPECT().FindByEmail("ada@example.com").Return(storedUser("hunter22"), nil)

	_, err := svc.Login(&models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	userRepo.EXPECT().FindByEmail("nobody@example.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_DeactivatedUser(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	user := storedUser("hunter22")
	user.IsActive = false
	userRepo.EXPECT().FindByEmail("ada@example.com").Return(user, nil)

	_, err := svc.Login(&models.LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestGetProfile_IncludesAggregates(t *testing.T) {
	svc, userRepo, urlRepo := newAuthService(t)

	userRepo.EXPECT().FindByID("user-1").Return(storedUser("hunter22"), nil)
	urlRepo.EXPECT().CountURLsAndClicksByUserID("user-1").Return(int64(3), int64(42), nil)

	profile, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), profile.TotalURLs)
	assert.Equal(t, int64(42), profile.TotalClicks)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	userRepo.EXPECT().FindByID("ghost").Return(nil, repository.ErrNotFound)

	_, err := svc.GetProfile("ghost")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestGetProfile_DeactivatedUser(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	user := storedUser("hunter22")
	user.IsActive = false
	userRepo.EXPECT().FindByID("user-1").Return(user, nil)

	_, err := svc.GetProfile("user-1")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestRegister_LastLoginFailureDoesNotFailRegistration(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)

	userRepo.EXPECT().
		Create("ada@example.com", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(storedUser("hunter22"), nil)
	userRepo.EXPECT().UpdateLastLogin("user-1").Return(errors.New("db hiccup"))

	resp, err := svc.Register(&models.RegisterRequest{
		Email:           "ada@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}
