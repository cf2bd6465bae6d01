package client

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/database"
	"jwtpizza/logger"
	"jwtpizza/model"
	"jwtpizza/repository"
	"jwtpizza/service"
	"jwtpizza/utils"
)

// Local calls a service in the same process. Tokens are resolved exactly as the HTTP
// middleware resolves them.
type Local struct {
	svc *service.Service
}

func NewLocal(svc *service.Service) *Local {
	return &Local{svc: svc}
}

// NewSeeded returns a Local backed by a fresh in-memory store holding the demo data.
func NewSeeded(ctx context.Context, log logger.Logger) (*Local, error) {
	repo := repository.NewMemory()
	hasher := auth.NewHasher(bcrypt.MinCost)
	if err := database.Seed(ctx, repo, hasher); err != nil {
		return nil, err
	}
	tokens := utils.NewTokenIssuer("in-process", time.Hour)
	return NewLocal(service.New(repo, tokens, database.NewMemoryTokenStore(), hasher, log)), nil
}

func (l *Local) identity(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Anonymous, nil
	}
	id, err := l.svc.Authenticate(ctx, token)
	if apperror.Is(err, apperror.Unauthorized) {
		return auth.Anonymous, nil
	}
	return id, err
}

func (l *Local) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	return l.svc.Login(ctx, model.LoginRequest{Email: email, Password: password})
}

func (l *Local) Register(ctx context.Context, name, email, password string) (*model.AuthResult, error) {
	return l.svc.Register(ctx, model.RegisterRequest{Name: name, Email: email, Password: password})
}

func (l *Local) Logout(ctx context.Context, token string) error {
	return l.svc.Logout(ctx, token)
}

func (l *Local) Me(ctx context.Context, token string) (*model.User, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.Me(ctx, id)
}

func (l *Local) UpdateUser(ctx context.Context, token string, userID model.UserID, req model.UpdateUserRequest) (*model.AuthResult, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.UpdateUser(ctx, id, userID, req)
}

func (l *Local) DeleteUser(ctx context.Context, token string, userID model.UserID) error {
	id, err := l.identity(ctx, token)
	if err != nil {
		return err
	}
	return l.svc.DeleteUser(ctx, id, userID)
}

func (l *Local) ListUsers(ctx context.Context, token string, page repository.Page) (*model.UserPage, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.ListUsers(ctx, id, page)
}

func (l *Local) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return l.svc.Menu(ctx)
}

func (l *Local) AddMenuItem(ctx context.Context, token string, item model.MenuItem) ([]model.MenuItem, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.AddMenuItem(ctx, id, item)
}

func (l *Local) Franchises(ctx context.Context, token string, page repository.Page) (*model.FranchisePage, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.Franchises(ctx, id, page)
}

func (l *Local) UserFranchises(ctx context.Context, token string, userID model.UserID) ([]model.Franchise, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.UserFranchises(ctx, id, userID)
}

func (l *Local) CreateFranchise(ctx context.Context, token string, req model.CreateFranchiseRequest) (*model.Franchise, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.CreateFranchise(ctx, id, req)
}

func (l *Local) DeleteFranchise(ctx context.Context, token string, franchiseID uint) error {
	id, err := l.identity(ctx, token)
	if err != nil {
		return err
	}
	return l.svc.DeleteFranchise(ctx, id, franchiseID)
}

func (l *Local) CreateStore(ctx context.Context, token string, franchiseID uint, name string) (*model.Store, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.CreateStore(ctx, id, franchiseID, model.CreateStoreRequest{Name: name})
}

func (l *Local) DeleteStore(ctx context.Context, token string, franchiseID, storeID uint) error {
	id, err := l.identity(ctx, token)
	if err != nil {
		return err
	}
	return l.svc.DeleteStore(ctx, id, franchiseID, storeID)
}

func (l *Local) PlaceOrder(ctx context.Context, token string, req model.OrderRequest) (*model.OrderResult, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.PlaceOrder(ctx, id, req)
}

func (l *Local) Orders(ctx context.Context, token string, page int) (*model.OrderPage, error) {
	id, err := l.identity(ctx, token)
	if err != nil {
		return nil, err
	}
	return l.svc.Orders(ctx, id, page)
}

var (
	_ API = (*Local)(nil)
	_ API = (*HTTP)(nil)
)
