package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/model"
	"jwtpizza/repository"
)

func TestFranchises_AdminsOnlyForAdmins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	page, err := svc.Franchises(ctx, auth.Anonymous, repository.Page{})
	require.NoError(t, err)
	require.Len(t, page.Franchises, 3)
	assert.False(t, page.More)
	for _, f := range page.Franchises {
		assert.Empty(t, f.Admins)
	}

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	page, err = svc.Franchises(ctx, admin, repository.Page{Name: "pizza*"})
	require.NoError(t, err)
	require.Len(t, page.Franchises, 2)
	assert.Equal(t, "pizzaPocket", page.Franchises[0].Name)
	assert.Equal(t, "f@jwt.com", page.Franchises[0].Admins[0].Email)
}

func TestUserFranchises(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner, _ := login(t, svc, "f@jwt.com", "c")
	mine, err := svc.UserFranchises(ctx, owner, owner.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "pizzaPocket", mine[0].Name)
	assert.Len(t, mine[0].Stores, 2)

	kai, _ := login(t, svc, "d@jwt.com", "a")
	other, err := svc.UserFranchises(ctx, kai, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, other)

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	viewed, err := svc.UserFranchises(ctx, admin, owner.UserID)
	require.NoError(t, err)
	assert.Len(t, viewed, 1)
}

func TestCreateFranchise(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin, _ := login(t, svc, "a@jwt.com", "admin")

	f, err := svc.CreateFranchise(ctx, admin, model.CreateFranchiseRequest{
		Name:   "pizzaCrust",
		Admins: []model.FranchiseAdmin{{Email: "d@jwt.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(4), f.ID)
	require.Len(t, f.Admins, 1)
	assert.Equal(t, "Kai Chen", f.Admins[0].Name)

	kai, _ := login(t, svc, "d@jwt.com", "a")
	assert.True(t, auth.Allowed(kai, auth.CreateStore, auth.Target{FranchiseID: f.ID}))

	_, err = svc.CreateFranchise(ctx, admin, model.CreateFranchiseRequest{Name: "pizzaCrust"})
	assertKind(t, err, apperror.Conflict)

	_, err = svc.CreateFranchise(ctx, admin, model.CreateFranchiseRequest{
		Name:   "ghost",
		Admins: []model.FranchiseAdmin{{Email: "ghost@jwt.com"}},
	})
	assertKind(t, err, apperror.NotFound)

	_, err = svc.CreateFranchise(ctx, admin, model.CreateFranchiseRequest{Name: ""})
	assertKind(t, err, apperror.MissingFields)

	_, err = svc.CreateFranchise(ctx, kai, model.CreateFranchiseRequest{Name: "mine"})
	assertKind(t, err, apperror.Forbidden)
}

func TestDeleteFranchise(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.Franchises(ctx, auth.Anonymous, repository.Page{})
	require.NoError(t, err)

	kai, _ := login(t, svc, "d@jwt.com", "a")
	owner, _ := login(t, svc, "f@jwt.com", "c")
	for _, actor := range []auth.Identity{auth.Anonymous, kai, owner} {
		assertKind(t, svc.DeleteFranchise(ctx, actor, 3), apperror.Forbidden)
		assertKind(t, svc.DeleteFranchise(ctx, actor, 1), apperror.Forbidden)
		assertKind(t, svc.DeleteFranchise(ctx, actor, 99), apperror.Forbidden)
	}

	after, err := svc.Franchises(ctx, auth.Anonymous, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, before.Franchises, after.Franchises, "rejected deletes leave the franchise list unchanged")

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	require.NoError(t, svc.DeleteFranchise(ctx, admin, 3))

	page, err := svc.Franchises(ctx, admin, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, page.Franchises, 2)
	for _, f := range page.Franchises {
		assert.NotEqual(t, "PizzaCorp", f.Name)
	}

	chai, _ := login(t, svc, "e@jwt.com", "b")
	for _, r := range chai.Roles {
		assert.NotEqual(t, model.RoleFranchisee, r.Role, "franchisee role pointing at the deleted franchise is gone")
	}

	assertKind(t, svc.DeleteFranchise(ctx, admin, 3), apperror.NotFound)
}

func TestCreateStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner, _ := login(t, svc, "f@jwt.com", "c")
	store, err := svc.CreateStore(ctx, owner, 1, model.CreateStoreRequest{Name: "Orem"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), store.ID)
	assert.Equal(t, uint(1), store.FranchiseID)
	assert.Zero(t, store.TotalRevenue)

	require.NoError(t, svc.DeleteStore(ctx, owner, 1, store.ID))
	again, err := svc.CreateStore(ctx, owner, 1, model.CreateStoreRequest{Name: "Orem"})
	require.NoError(t, err)
	assert.Equal(t, uint(4), again.ID, "store ids are never reused")

	_, err = svc.CreateStore(ctx, owner, 1, model.CreateStoreRequest{Name: " "})
	assertKind(t, err, apperror.MissingFields)

	_, err = svc.CreateStore(ctx, owner, 2, model.CreateStoreRequest{Name: "Lindon"})
	assertKind(t, err, apperror.Forbidden)

	_, err = svc.CreateStore(ctx, owner, 99, model.CreateStoreRequest{Name: "Nowhere"})
	assertKind(t, err, apperror.NotFound)
}

func TestCreateStore_NonFranchiseeForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, who := range []struct{ email, password string }{
		{"d@jwt.com", "a"},
		{"a@jwt.com", "admin"},
	} {
		id, _ := login(t, svc, who.email, who.password)
		_, err := svc.CreateStore(ctx, id, 1, model.CreateStoreRequest{Name: "Orem"})
		assertKind(t, err, apperror.Forbidden)
	}
	_, err := svc.CreateStore(ctx, auth.Anonymous, 1, model.CreateStoreRequest{Name: "Orem"})
	assertKind(t, err, apperror.Forbidden)

	f, err := svc.repo.Franchise(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, f.Stores, 2, "failed attempts leave the franchise untouched")
}

func TestDeleteStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	kai, _ := login(t, svc, "d@jwt.com", "a")
	assertKind(t, svc.DeleteStore(ctx, kai, 1, 1), apperror.Forbidden)

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	assertKind(t, svc.DeleteStore(ctx, admin, 1, 42), apperror.NotFound)
	assertKind(t, svc.DeleteStore(ctx, admin, 42, 1), apperror.NotFound)
	require.NoError(t, svc.DeleteStore(ctx, admin, 1, 1))

	f, err := svc.repo.Franchise(ctx, 1)
	require.NoError(t, err)
	require.Len(t, f.Stores, 1)
	assert.Equal(t, "Provo", f.Stores[0].Name)
}
