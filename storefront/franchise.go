package storefront

import (
	"context"
	"fmt"

	"jwtpizza/model"
	"jwtpizza/repository"
)

func (s *Storefront) Franchises(ctx context.Context, page repository.Page) (*model.FranchisePage, error) {
	return s.api.Franchises(ctx, s.token(), page)
}

// MyFranchises lists the franchises the logged in user administers.
func (s *Storefront) MyFranchises(ctx context.Context) ([]model.Franchise, error) {
	sess, ok := s.Session()
	if !ok {
		return []model.Franchise{}, nil
	}
	return s.api.UserFranchises(ctx, sess.Token, sess.User.ID)
}

func (s *Storefront) CreateFranchise(ctx context.Context, name string, adminEmails ...string) (*model.Franchise, error) {
	req := model.CreateFranchiseRequest{Name: name}
	for _, email := range adminEmails {
		req.Admins = append(req.Admins, model.FranchiseAdmin{Email: email})
	}
	return s.api.CreateFranchise(ctx, s.token(), req)
}

// CloseFranchise deletes a franchise after confirmation.
func (s *Storefront) CloseFranchise(ctx context.Context, f model.Franchise, confirm Confirm) (bool, error) {
	prompt := fmt.Sprintf("Are you sure you want to close the %s franchise? This will close all associated stores and cannot be restored.", f.Name)
	if confirm != nil && !confirm(prompt) {
		return false, nil
	}
	if err := s.api.DeleteFranchise(ctx, s.token(), f.ID); err != nil {
		return false, err
	}
	return true, nil
}

// CreateStore opens a store; the backend decides whether the session may.
func (s *Storefront) CreateStore(ctx context.Context, franchiseID uint, name string) (*model.Store, error) {
	return s.api.CreateStore(ctx, s.token(), franchiseID, name)
}

// CloseStore deletes a store after confirmation.
func (s *Storefront) CloseStore(ctx context.Context, franchise model.Franchise, store model.Store, confirm Confirm) (bool, error) {
	prompt := fmt.Sprintf("Are you sure you want to close the %s store %s?", franchise.Name, store.Name)
	if confirm != nil && !confirm(prompt) {
		return false, nil
	}
	if err := s.api.DeleteStore(ctx, s.token(), franchise.ID, store.ID); err != nil {
		return false, err
	}
	return true, nil
}
