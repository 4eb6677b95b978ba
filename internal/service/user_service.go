package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/creative-studio/internal/config"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
)

// UserService runs the simulated login and the credit ledger
type UserService struct {
	users   UserRepository
	credits config.CreditsConfig
}

// NewUserService creates a new user service
func NewUserService(users UserRepository, credits config.CreditsConfig) *UserService {
	return &UserService{users: users, credits: credits}
}

// LoginInput is the login form
type LoginInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login returns the account for email, creating it with the starting balance on first use
func (s *UserService) Login(ctx context.Context, input *LoginInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := requireFields("name", name, "email", email); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !stderrors.Is(err, storage.ErrNotFound) {
		return nil, errors.NewDatabaseError("get user by email", err)
	}

	user := &models.User{
		ID:      storage.NewUserID(),
		Name:    name,
		Email:   email,
		Credits: s.credits.Starting,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, storage.ErrEmailTaken) {
			// lost a concurrent first login for the same email
			winner, getErr := s.users.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, errors.NewDatabaseError("get user by email", getErr)
			}
			return winner, nil
		}
		return nil, errors.NewDatabaseError("create user", err)
	}

	logging.FromContext(ctx).WithField("userId", user.ID).Info("Created user")
	return user, nil
}

// GetUser returns the user with id
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("get user", err)
	}
	return user, nil
}

// EarnCredits grants the ad reward once and returns the updated balance
func (s *UserService) EarnCredits(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.AddCredits(ctx, id, s.credits.AdReward)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("add credits", err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"userId":  id,
		"reward":  s.credits.AdReward,
		"credits": user.Credits,
	}).Info("Credits earned")
	return user, nil
}
