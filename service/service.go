// Package service implements the pizza ordering operations. Every operation receives
// the acting identity explicitly and decides authorization through auth.Authorize.
package service

import (
	"errors"
	"time"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/database"
	"jwtpizza/logger"
	"jwtpizza/repository"
	"jwtpizza/utils"
)

type Service struct {
	repo    repository.Repository
	tokens  *utils.TokenIssuer
	revoked database.TokenStore
	hasher  auth.Hasher
	log     logger.Logger
	now     func() time.Time
}

func New(repo repository.Repository, tokens *utils.TokenIssuer, revoked database.TokenStore, hasher auth.Hasher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		repo:    repo,
		tokens:  tokens,
		revoked: revoked,
		hasher:  hasher,
		log:     log,
		now:     time.Now,
	}
}

// fromRepo translates repository sentinels into application errors.
func fromRepo(err error, notFound, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.Wrap(apperror.NotFound, notFound, err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Wrap(apperror.Conflict, duplicate, err)
	default:
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.Wrap(apperror.Internal, "storage failure", err)
	}
}
