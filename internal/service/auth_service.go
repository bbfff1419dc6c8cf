package service

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"shortr-be/internal/entities"
	"shortr-be/internal/jwt"
	"shortr-be/internal/models"
	"shortr-be/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(req *models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(userID string) (*models.ProfileResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	urlRepo    repository.URLRepository
	jwtService *jwt.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, urlRepo repository.URLRepository, jwtService *jwt.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		urlRepo:    urlRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user account and logs it in.
func (s *authService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(req.Email, string(hashedPassword), optional(req.FirstName), optional(req.LastName))
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

// Login authenticates a user and returns a fresh token.
func (s *authService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GetProfile returns the user's profile with aggregate URL and click totals.
func (s *authService) GetProfile(userID string) (*models.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrProfileNotFound
	}

	totalURLs, totalClicks, err := s.urlRepo.CountURLsAndClicksByUserID(userID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   deref(user.FirstName),
		LastName:    deref(user.LastName),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
		TotalURLs:   totalURLs,
		TotalClicks: totalClicks,
	}, nil
}

func (s *authService) issueToken(user *entities.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		// Best effort, the login itself already succeeded.
		log.Printf("Warning: failed to update last login for %s: %v", user.ID, err)
	}

	return &models.AuthResponse{
		Token:     token,
		Email:     user.Email,
		FirstName: deref(user.FirstName),
		LastName:  deref(user.LastName),
		ExpiresAt: expiresAt,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
