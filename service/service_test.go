package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/database"
	"jwtpizza/logger"
	"jwtpizza/model"
	"jwtpizza/repository"
	"jwtpizza/utils"
)

// Seeded ids: users a@=1 f@=2 d@=3 e@=4 franchisee@=5; franchises pizzaPocket=1
// LotaPizza=2 PizzaCorp=3; menu Veggie=1 Pepperoni=2.
func newTestService(t *testing.T) (*Service, *repository.Memory) {
	t.Helper()
	repo := repository.NewMemory()
	hasher := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, database.Seed(context.Background(), repo, hasher))

	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	return New(repo, tokens, database.NewMemoryTokenStore(), hasher, logger.NewTestLogger(t)), repo
}

func login(t *testing.T, svc *Service, email, password string) (auth.Identity, string) {
	t.Helper()
	ctx := context.Background()
	res, err := svc.Login(ctx, model.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	id, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	return id, res.Token
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), "got %v", err)
}

func TestLoginLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	kai, token := login(t, svc, "d@jwt.com", "a")
	assert.Equal(t, "Kai Chen", kai.Name)
	assert.Equal(t, model.UserID(3), kai.UserID)

	me, err := svc.Me(ctx, kai)
	require.NoError(t, err)
	assert.Equal(t, "d@jwt.com", me.Email)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assertKind(t, err, apperror.Unauthorized)

	require.NoError(t, svc.Logout(ctx, "garbage"), "logout ignores invalid tokens")
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, model.LoginRequest{Email: "d@jwt.com", Password: "wrong"})
	assertKind(t, err, apperror.Unauthorized)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@jwt.com", Password: "a"})
	assertKind(t, err, apperror.Unauthorized)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "d@jwt.com"})
	assertKind(t, err, apperror.MissingFields)
}

func TestMe_Anonymous(t *testing.T) {
	svc, _ := newTestService(t)
	me, err := svc.Me(context.Background(), auth.Anonymous)
	require.NoError(t, err)
	assert.Nil(t, me)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	kai, token := login(t, svc, "d@jwt.com", "a")
	require.NoError(t, svc.DeleteUser(ctx, kai, kai.UserID))

	_, err := svc.Authenticate(ctx, token)
	assertKind(t, err, apperror.Unauthorized)
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, model.RegisterRequest{Name: "pizza diner", Email: "new@jwt.com", Password: "diner"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	require.Len(t, res.User.Roles, 1)
	assert.Equal(t, model.RoleDiner, res.User.Roles[0].Role)

	id, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)

	_, err = svc.Register(ctx, model.RegisterRequest{Name: "imposter", Email: "d@jwt.com", Password: "x"})
	assertKind(t, err, apperror.Conflict)
	kai, _ := login(t, svc, "d@jwt.com", "a")
	assert.Equal(t, "Kai Chen", kai.Name, "existing identity is untouched")

	_, err = svc.Register(ctx, model.RegisterRequest{Name: " ", Email: "x@jwt.com", Password: "x"})
	assertKind(t, err, apperror.MissingFields)
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	kai, _ := login(t, svc, "d@jwt.com", "a")
	res, err := svc.UpdateUser(ctx, kai, kai.UserID, model.UpdateUserRequest{Email: "kai@jwt.com"})
	require.NoError(t, err)
	assert.Equal(t, "kai@jwt.com", res.User.Email)
	assert.Equal(t, "Kai Chen", res.User.Name)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "d@jwt.com", Password: "a"})
	assertKind(t, err, apperror.Unauthorized)
	login(t, svc, "kai@jwt.com", "a")

	_, err = svc.UpdateUser(ctx, kai, kai.UserID, model.UpdateUserRequest{Email: "e@jwt.com"})
	assertKind(t, err, apperror.Conflict)

	_, err = svc.UpdateUser(ctx, kai, 4, model.UpdateUserRequest{Name: "hijack"})
	assertKind(t, err, apperror.Forbidden)

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	_, err = svc.UpdateUser(ctx, admin, kai.UserID, model.UpdateUserRequest{Name: "renamed"})
	assertKind(t, err, apperror.Forbidden)

	_, err = svc.UpdateUser(ctx, auth.Anonymous, kai.UserID, model.UpdateUserRequest{Name: "x"})
	assertKind(t, err, apperror.Unauthorized)
}

func TestUpdateUser_Password(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	kai, _ := login(t, svc, "d@jwt.com", "a")
	_, err := svc.UpdateUser(ctx, kai, kai.UserID, model.UpdateUserRequest{Password: "newpass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "d@jwt.com", Password: "a"})
	assertKind(t, err, apperror.Unauthorized)
	login(t, svc, "d@jwt.com", "newpass")
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	kai, _ := login(t, svc, "d@jwt.com", "a")
	err := svc.DeleteUser(ctx, kai, 4)
	assertKind(t, err, apperror.Forbidden)

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	require.NoError(t, svc.DeleteUser(ctx, admin, kai.UserID))
	_, err = svc.Login(ctx, model.LoginRequest{Email: "d@jwt.com", Password: "a"})
	assertKind(t, err, apperror.Unauthorized)

	err = svc.DeleteUser(ctx, admin, 999)
	assertKind(t, err, apperror.NotFound)
}

func TestListUsers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	admin, _ := login(t, svc, "a@jwt.com", "admin")
	page, err := svc.ListUsers(ctx, admin, repository.Page{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.True(t, page.More)

	page, err = svc.ListUsers(ctx, admin, repository.Page{Name: "Kai*"})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "d@jwt.com", page.Users[0].Email)

	kai, _ := login(t, svc, "d@jwt.com", "a")
	_, err = svc.ListUsers(ctx, kai, repository.Page{})
	assertKind(t, err, apperror.Forbidden)
}
