// Package client talks to the pizza service. API has two implementations: HTTP for a
// running server and Local for an in-process service.
package client

import (
	"context"

	"jwtpizza/model"
	"jwtpizza/repository"
)

// API is the backend contract used by the storefront. token is the caller's session
// token, or "" for anonymous calls.
type API interface {
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*model.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*model.User, error)
	UpdateUser(ctx context.Context, token string, id model.UserID, req model.UpdateUserRequest) (*model.AuthResult, error)
	DeleteUser(ctx context.Context, token string, id model.UserID) error
	ListUsers(ctx context.Context, token string, page repository.Page) (*model.UserPage, error)

	Menu(ctx context.Context) ([]model.MenuItem, error)
	AddMenuItem(ctx context.Context, token string, item model.MenuItem) ([]model.MenuItem, error)

	Franchises(ctx context.Context, token string, page repository.Page) (*model.FranchisePage, error)
	UserFranchises(ctx context.Context, token string, userID model.UserID) ([]model.Franchise, error)
	CreateFranchise(ctx context.Context, token string, req model.CreateFranchiseRequest) (*model.Franchise, error)
	DeleteFranchise(ctx context.Context, token string, id uint) error
	CreateStore(ctx context.Context, token string, franchiseID uint, name string) (*model.Store, error)
	DeleteStore(ctx context.Context, token string, franchiseID, storeID uint) error

	PlaceOrder(ctx context.Context, token string, req model.OrderRequest) (*model.OrderResult, error)
	Orders(ctx context.Context, token string, page int) (*model.OrderPage, error)
}
