package service

import (
	"context"
	"strings"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/model"
	"jwtpizza/repository"
)

// Franchises lists franchises publicly. Admin lists are only shown to admins.
func (s *Service) Franchises(ctx context.Context, actor auth.Identity, page repository.Page) (*model.FranchisePage, error) {
	franchises, more, err := s.repo.Franchises(ctx, page)
	if err != nil {
		return nil, fromRepo(err, "", "")
	}
	if !actor.IsAdmin() {
		for i := range franchises {
			franchises[i].Admins = nil
		}
	}
	return &model.FranchisePage{Franchises: franchises, More: more}, nil
}

// UserFranchises returns the franchises administered by userID. Callers other than the
// user or an admin get an empty list.
func (s *Service) UserFranchises(ctx context.Context, actor auth.Identity, userID model.UserID) ([]model.Franchise, error) {
	if !auth.Allowed(actor, auth.ViewUserFranchises, auth.Target{UserID: userID}) {
		return []model.Franchise{}, nil
	}
	franchises, err := s.repo.FranchisesForAdmin(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "", "")
	}
	return franchises, nil
}

func (s *Service) CreateFranchise(ctx context.Context, actor auth.Identity, req model.CreateFranchiseRequest) (*model.Franchise, error) {
	if err := auth.Authorize(actor, auth.CreateFranchise, auth.Target{}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.MissingFields, "franchise name is required")
	}

	admins := make([]model.UserID, 0, len(req.Admins))
	for _, a := range req.Admins {
		email := strings.TrimSpace(a.Email)
		if email == "" {
			return nil, apperror.New(apperror.MissingFields, "franchise admin email is required")
		}
		u, err := s.repo.UserByEmail(ctx, email)
		if err != nil {
			return nil, fromRepo(err, "unknown user for franchise admin "+email, "")
		}
		admins = append(admins, u.ID)
	}

	f := &model.Franchise{Name: name}
	if err := s.repo.CreateFranchise(ctx, f, admins); err != nil {
		return nil, fromRepo(err, "unknown franchise admin", "franchise name already exists")
	}
	s.log.Info("franchise created", map[string]interface{}{
		"franchiseId": f.ID,
		"name":        f.Name,
		"admins":      len(admins),
	})
	return f, nil
}

func (s *Service) DeleteFranchise(ctx context.Context, actor auth.Identity, id uint) error {
	if err := auth.Authorize(actor, auth.DeleteFranchise, auth.Target{FranchiseID: id}); err != nil {
		return err
	}
	if err := s.repo.DeleteFranchise(ctx, id); err != nil {
		return fromRepo(err, "unknown franchise", "")
	}
	s.log.Info("franchise deleted", map[string]interface{}{"franchiseId": id})
	return nil
}

func (s *Service) CreateStore(ctx context.Context, actor auth.Identity, franchiseID uint, req model.CreateStoreRequest) (*model.Store, error) {
	if _, err := s.repo.Franchise(ctx, franchiseID); err != nil {
		return nil, fromRepo(err, "unknown franchise", "")
	}
	if err := auth.Authorize(actor, auth.CreateStore, auth.Target{FranchiseID: franchiseID}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.MissingFields, "store name is required")
	}

	store, err := s.repo.CreateStore(ctx, franchiseID, name)
	if err != nil {
		return nil, fromRepo(err, "unknown franchise", "")
	}
	s.log.Info("store created", map[string]interface{}{
		"franchiseId": franchiseID,
		"storeId":     store.ID,
	})
	return store, nil
}

func (s *Service) DeleteStore(ctx context.Context, actor auth.Identity, franchiseID, storeID uint) error {
	f, err := s.repo.Franchise(ctx, franchiseID)
	if err != nil {
		return fromRepo(err, "unknown franchise", "")
	}
	found := false
	for _, st := range f.Stores {
		if st.ID == storeID {
			found = true
			break
		}
	}
	if !found {
		return apperror.New(apperror.NotFound, "unknown store")
	}
	if err := auth.Authorize(actor, auth.DeleteStore, auth.Target{FranchiseID: franchiseID}); err != nil {
		return err
	}
	if err := s.repo.DeleteStore(ctx, franchiseID, storeID); err != nil {
		return fromRepo(err, "unknown store", "")
	}
	s.log.Info("store deleted", map[string]interface{}{
		"franchiseId": franchiseID,
		"storeId":     storeID,
	})
	return nil
}
