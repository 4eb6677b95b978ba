package service

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/config"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage/storagetest"
)

var testCredits = config.CreditsConfig{Starting: 100, AdReward: 50, CostPerGeneration: 5}

func TestLogin_CreatesThenReturnsExisting(t *testing.T) {
	users := storagetest.NewUsers()
	svc := NewUserService(users, testCredits)
	ctx := context.Background()

	created, err := svc.Login(ctx, &LoginInput{Name: "Ada", Email: "Ada@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.Credits)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Contains(t, created.ID, "usr_")

	again, err := svc.Login(ctx, &LoginInput{Name: "Someone Else", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Ada", again.Name)
}

func TestLogin_RequiresNameAndEmail(t *testing.T) {
	svc := NewUserService(storagetest.NewUsers(), testCredits)

	tests := []struct {
		name  string
		input LoginInput
		field string
	}{
		{"missing name", LoginInput{Email: "a@b.c"}, "name"},
		{"blank name", LoginInput{Name: "  ", Email: "a@b.c"}, "name"},
		{"missing email", LoginInput{Name: "Ada"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.input)
			require.Error(t, err)
			catErr := errors.Categorize(err)
			assert.Equal(t, errors.CodeInvalidInput, catErr.Code)
			assert.Equal(t, tt.field, catErr.Details["field"])
		})
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc := NewUserService(storagetest.NewUsers(), testCredits)

	_, err := svc.GetUser(context.Background(), "usr_nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestEarnCredits_AddsRewardOncePerCall(t *testing.T) {
	users := storagetest.NewUsers(&models.User{ID: "usr_1", Name: "Ada", Email: "ada@example.com", Credits: 100})
	svc := NewUserService(users, testCredits)
	ctx := context.Background()

	user, err := svc.EarnCredits(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), user.Credits)

	user, err = svc.EarnCredits(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), user.Credits)

	_, err = svc.EarnCredits(ctx, "usr_missing")
	assert.True(t, errors.IsNotFound(err))
}

// Earning never decreases the balance and always adds exactly the reward.
func TestEarnCredits_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("balance grows by reward per earn", prop.ForAll(
		func(start int64, earns int) bool {
			users := storagetest.NewUsers(&models.User{ID: "usr_p", Email: "p@example.com", Credits: start})
			svc := NewUserService(users, testCredits)

			prev := start
			for i := 0; i < earns; i++ {
				user, err := svc.EarnCredits(context.Background(), "usr_p")
				if err != nil || user.Credits != prev+testCredits.AdReward || user.Credits < prev {
					return false
				}
				prev = user.Credits
			}
			return true
		},
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
