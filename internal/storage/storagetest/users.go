package storagetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
)

// Users is an in-memory stand-in for storage.UserRepository
type Users struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	Err   error // returned by every call when set
	calls int
}

// NewUsers creates an empty user store seeded with users
func NewUsers(users ...*models.User) *Users {
	u := &Users{byID: make(map[string]*models.User)}
	for _, user := range users {
		cp := *user
		u.byID[user.ID] = &cp
	}
	return u
}

// Calls returns how many repository calls were made
func (u *Users) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

func (u *Users) begin() error {
	u.mu.Lock()
	u.calls++
	return u.Err
}

// Create implements the repository contract, including ErrEmailTaken
func (u *Users) Create(ctx context.Context, user *models.User) error {
	err := u.begin()
	defer u.mu.Unlock()
	if err != nil {
		return err
	}

	for _, existing := range u.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return storage.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = storage.NewUserID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	cp := *user
	u.byID[user.ID] = &cp
	return nil
}

// GetByID returns a copy of the user or storage.ErrNotFound
func (u *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	err := u.begin()
	defer u.mu.Unlock()
	if err != nil {
		return nil, err
	}

	user, ok := u.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// GetByEmail matches case-insensitively
func (u *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	err := u.begin()
	defer u.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, user := range u.byID {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// AddCredits adds amount and returns the updated user
func (u *Users) AddCredits(ctx context.Context, id string, amount int64) (*models.User, error) {
	err := u.begin()
	defer u.mu.Unlock()
	if err != nil {
		return nil, err
	}

	user, ok := u.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user.Credits += amount
	user.UpdatedAt = time.Now().UTC()
	cp := *user
	return &cp, nil
}
