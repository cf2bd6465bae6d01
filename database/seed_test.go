package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jwtpizza/auth"
	"jwtpizza/model"
	"jwtpizza/repository"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	hasher := auth.NewHasher(bcrypt.MinCost)

	require.NoError(t, Seed(ctx, repo, hasher))
	require.NoError(t, Seed(ctx, repo, hasher), "seeding twice is a no-op")

	kai, err := repo.UserByEmail(ctx, "d@jwt.com")
	require.NoError(t, err)
	assert.Equal(t, "Kai Chen", kai.Name)
	ok, err := hasher.Verify(kai.Password, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	franchisee, err := repo.UserByEmail(ctx, "f@jwt.com")
	require.NoError(t, err)
	assert.True(t, franchisee.HasRole(model.RoleFranchisee))

	franchises, _, err := repo.Franchises(ctx, repository.Page{})
	require.NoError(t, err)
	require.Len(t, franchises, 3)
	assert.Equal(t, "PizzaCorp", franchises[2].Name)
	assert.Equal(t, "e@jwt.com", franchises[2].Admins[0].Email)
	assert.InDelta(t, 1200, franchises[2].Stores[0].TotalRevenue, 1e-9)

	menu, err := repo.Menu(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Veggie", menu[0].Title)
	assert.Equal(t, 0.0042, menu[1].Price)
}
