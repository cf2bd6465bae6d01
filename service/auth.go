package service

import (
	"context"
	"errors"
	"strings"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/metrics"
	"jwtpizza/model"
	"jwtpizza/repository"
)

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.New(apperror.MissingFields, "email and password are required")
	}

	user, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.AuthFailures.WithLabelValues("unknown_user").Inc()
		return nil, apperror.New(apperror.Unauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, fromRepo(err, "", "")
	}

	ok, err := s.hasher.Verify(user.Password, req.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "verify password", err)
	}
	if !ok {
		metrics.AuthFailures.WithLabelValues("bad_password").Inc()
		return nil, apperror.New(apperror.Unauthorized, "invalid credentials")
	}

	return s.issue(user)
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperror.New(apperror.MissingFields, "name, email, and password are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "hash password", err)
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Roles:    []model.RoleAssignment{{Role: model.RoleDiner}},
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fromRepo(err, "", "email already registered")
	}

	s.log.Info("user registered", map[string]interface{}{"userId": user.ID.String()})
	return s.issue(user)
}

// Logout revokes token until it would have expired. Invalid tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, s.tokens.Remaining(claims)); err != nil {
		return apperror.Wrap(apperror.Internal, "revoke token", err)
	}
	s.log.Info("user logged out", map[string]interface{}{"userId": claims.UserID.String()})
	return nil
}

// Authenticate resolves a session token. Roles are read from storage, not from the token.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
		return auth.Anonymous, apperror.Wrap(apperror.Unauthorized, "unauthorized", err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.Anonymous, apperror.Wrap(apperror.Internal, "check revocation", err)
	}
	if revoked {
		metrics.AuthFailures.WithLabelValues("revoked_token").Inc()
		return auth.Anonymous, apperror.New(apperror.Unauthorized, "unauthorized")
	}

	user, err := s.repo.UserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.AuthFailures.WithLabelValues("unknown_user").Inc()
		return auth.Anonymous, apperror.New(apperror.Unauthorized, "unauthorized")
	}
	if err != nil {
		return auth.Anonymous, fromRepo(err, "", "")
	}
	return auth.FromUser(user, claims.ID), nil
}

// Me returns the caller's user record, or nil for anonymous callers.
func (s *Service) Me(ctx context.Context, actor auth.Identity) (*model.User, error) {
	if !actor.Authenticated() {
		return nil, nil
	}
	user, err := s.repo.UserByID(ctx, actor.UserID)
	if err != nil {
		return nil, fromRepo(err, "unknown user", "")
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor auth.Identity, id model.UserID, req model.UpdateUserRequest) (*model.AuthResult, error) {
	if err := auth.Authorize(actor, auth.UpdateUser, auth.Target{UserID: id}); err != nil {
		return nil, err
	}

	user, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "unknown user", "")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, apperror.Wrap(apperror.Internal, "hash password", err)
		}
		user.Password = hash
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fromRepo(err, "unknown user", "email already registered")
	}
	return s.issue(user)
}

func (s *Service) DeleteUser(ctx context.Context, actor auth.Identity, id model.UserID) error {
	if err := auth.Authorize(actor, auth.DeleteUser, auth.Target{UserID: id}); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fromRepo(err, "unknown user", "")
	}
	s.log.Info("user deleted", map[string]interface{}{
		"userId":  id.String(),
		"actorId": actor.UserID.String(),
	})
	return nil
}

func (s *Service) ListUsers(ctx context.Context, actor auth.Identity, page repository.Page) (*model.UserPage, error) {
	if err := auth.Authorize(actor, auth.ListUsers, auth.Target{}); err != nil {
		return nil, err
	}
	users, more, err := s.repo.ListUsers(ctx, page)
	if err != nil {
		return nil, fromRepo(err, "", "")
	}
	return &model.UserPage{Users: users, More: more}, nil
}

func (s *Service) issue(user *model.User) (*model.AuthResult, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "sign token", err)
	}
	return &model.AuthResult{User: user, Token: token}, nil
}
