// Package repository persists users, franchises, menus and orders.
package repository

import (
	"context"
	"errors"

	"jwtpizza/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	// DefaultLimit is the page size used when a caller passes a non-positive limit.
	DefaultLimit = 10
	// MaxLimit caps the page size.
	MaxLimit = 100
	// MaxPage bounds page numbers so offsets always fit in an int.
	MaxPage = 1 << 20
)

// Page selects a window of a listing. Page numbers start at 0.
type Page struct {
	Page  int
	Limit int
	// Name filters by name; '*' matches any run of characters.
	Name string
}

func (p Page) normalized() Page {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Name == "" {
		p.Name = "*"
	}
	return p
}

func (p Page) offset() int {
	return p.Page * p.Limit
}

// Repository is the persistence seam of the service. Implementations must apply each
// mutation completely or not at all.
type Repository interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id model.UserID) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id model.UserID) error
	ListUsers(ctx context.Context, p Page) ([]model.User, bool, error)

	Menu(ctx context.Context) ([]model.MenuItem, error)
	AddMenuItems(ctx context.Context, items []model.MenuItem) error

	Franchises(ctx context.Context, p Page) ([]model.Franchise, bool, error)
	FranchisesForAdmin(ctx context.Context, id model.UserID) ([]model.Franchise, error)
	Franchise(ctx context.Context, id uint) (*model.Franchise, error)
	// CreateFranchise stores f and grants every admin a franchisee role scoped to it.
	CreateFranchise(ctx context.Context, f *model.Franchise, admins []model.UserID) error
	// DeleteFranchise removes the franchise, its stores and the roles scoped to it.
	DeleteFranchise(ctx context.Context, id uint) error
	// CreateStore assigns the franchise's next store id.
	CreateStore(ctx context.Context, franchiseID uint, name string) (*model.Store, error)
	DeleteStore(ctx context.Context, franchiseID, storeID uint) error

	// CreateOrder stores o, assigns its id and adds its total to the store revenue.
	CreateOrder(ctx context.Context, o *model.Order) error
	OrdersForDiner(ctx context.Context, id model.UserID, p Page) ([]model.Order, bool, error)
}
