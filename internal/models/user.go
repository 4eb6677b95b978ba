// Package models provides data models for the creative studio.
package models

import (
	"time"

	"github.com/creative-studio/internal/types"
)

// User is the simulated account holding the credit balance
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Credits   int64     `json:"credits" db:"credits"`
	IsPro     bool      `json:"isPro" db:"is_pro"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Tier returns the rate limit tier for the user
func (u *User) Tier() types.UserTier {
	if u.IsPro {
		return types.TierPro
	}
	return types.TierFree
}
