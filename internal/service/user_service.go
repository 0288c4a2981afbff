package service

import (
	"context"

	"flowshare/internal/models"
	"flowshare/internal/repository"
	"flowshare/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns account creation and credential checks.
type UserService struct {
	userRepo repository.UserRepository
}

// SignupInput carries a registration request.
type SignupInput struct {
	Username string
	Password string
}

// LoginInput carries a credential check request.
type LoginInput struct {
	Username string
	Password string
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Signup validates the input and creates the account with a bcrypt hash.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns the account. The error is the
// same for unknown usernames and wrong passwords.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// GetProfile returns the public profile for a user.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
