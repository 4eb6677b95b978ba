package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/creative-studio/internal/models"
)

// UserIDPrefix prefixes every generated user id
const UserIDPrefix = "usr_"

var (
	// ErrNotFound is returned when a row or key does not exist
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when creating a user whose email exists
	ErrEmailTaken = errors.New("email already registered")
)

const pgUniqueViolation = "23505"

const userColumns = `id, name, email, credits, is_pro, created_at, updated_at`

// UserRepository handles user data persistence
type UserRepository struct {
	db *PostgresDB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

// NewUserID returns a fresh user id
func NewUserID() string {
	return UserIDPrefix + uuid.New().String()
}

// Create inserts user, filling ID and timestamps when unset
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = NewUserID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Pool().Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Credits,
		user.IsPro,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(ctx, query, email)
}

// AddCredits atomically adds amount to the balance and returns the updated user
func (r *UserRepository) AddCredits(ctx context.Context, id string, amount int64) (*models.User, error) {
	if amount < 0 {
		return nil, fmt.Errorf("credit amount must not be negative: %d", amount)
	}
	query := `
		UPDATE users
		SET credits = credits + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.scanOne(ctx, query, id, amount)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.Pool().QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Credits,
		&user.IsPro,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
