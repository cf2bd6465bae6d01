package database

import (
	"context"
	"errors"
	"fmt"

	"jwtpizza/auth"
	"jwtpizza/model"
	"jwtpizza/repository"
)

type seedUser struct {
	name, email, password string
	role                  model.Role
}

var seedUsers = []seedUser{
	{"常用名字", "a@jwt.com", "admin", model.RoleAdmin},
	{"Chein Kai", "f@jwt.com", "c", model.RoleDiner},
	{"Kai Chen", "d@jwt.com", "a", model.RoleDiner},
	{"Chai Ken", "e@jwt.com", "b", model.RoleAdmin},
	{"Franchise Owner", "franchisee@jwt.com", "franchisee", model.RoleDiner},
}

type seedStore struct {
	name    string
	revenue float64
}

type seedFranchise struct {
	name   string
	admin  string
	stores []seedStore
}

var seedFranchises = []seedFranchise{
	{"pizzaPocket", "f@jwt.com", []seedStore{{"SLC", 1000}, {"Provo", 1500}}},
	{"LotaPizza", "franchisee@jwt.com", []seedStore{{"Lehi", 2000}, {"Springville", 1800}, {"American Fork", 2200}}},
	{"PizzaCorp", "e@jwt.com", []seedStore{{"Spanish Fork", 1200}}},
}

var seedMenu = []model.MenuItem{
	{Title: "Veggie", Image: "pizza1.png", Price: 0.0038, Description: "A garden of delight"},
	{Title: "Pepperoni", Image: "pizza2.png", Price: 0.0042, Description: "Spicy treat"},
	{Title: "Margarita", Image: "pizza3.png", Price: 0.0042, Description: "Essential classic"},
	{Title: "Crusty", Image: "pizza4.png", Price: 0.0028, Description: "A dry mouthed favorite"},
	{Title: "Charred Leopard", Image: "pizza5.png", Price: 0.0099, Description: "For those with a darker side"},
}

// Seed loads the demo users, franchises and menu. It does nothing when the admin
// account already exists.
func Seed(ctx context.Context, repo repository.Repository, hasher auth.Hasher) error {
	if _, err := repo.UserByEmail(ctx, seedUsers[0].email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check seed: %w", err)
	}

	ids := make(map[string]model.UserID, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := hasher.Hash(su.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.email, err)
		}
		u := &model.User{
			Name:     su.name,
			Email:    su.email,
			Password: hash,
			Roles:    []model.RoleAssignment{{Role: su.role}},
		}
		if err := repo.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		ids[su.email] = u.ID
	}

	for _, sf := range seedFranchises {
		f := &model.Franchise{Name: sf.name}
		if err := repo.CreateFranchise(ctx, f, []model.UserID{ids[sf.admin]}); err != nil {
			return fmt.Errorf("seed franchise %s: %w", sf.name, err)
		}
		for _, ss := range sf.stores {
			store, err := repo.CreateStore(ctx, f.ID, ss.name)
			if err != nil {
				return fmt.Errorf("seed store %s: %w", ss.name, err)
			}
			// Opening revenue is booked as one historical order per store.
			order := &model.Order{
				FranchiseID: f.ID,
				StoreID:     store.ID,
				Items:       []model.OrderItem{{MenuID: 0, Description: "opening balance", Price: ss.revenue}},
			}
			if err := repo.CreateOrder(ctx, order); err != nil {
				return fmt.Errorf("seed revenue for %s: %w", ss.name, err)
			}
		}
	}

	menu := make([]model.MenuItem, len(seedMenu))
	copy(menu, seedMenu)
	if err := repo.AddMenuItems(ctx, menu); err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	return nil
}
