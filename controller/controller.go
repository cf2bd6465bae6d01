package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jwtpizza/apperror"
	"jwtpizza/logger"
	"jwtpizza/repository"
	"jwtpizza/service"
	"jwtpizza/utils"
)

// Controller exposes the service over the JSON API.
type Controller struct {
	svc *service.Service
	log logger.Logger
}

func New(svc *service.Service, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Controller{svc: svc, log: log}
}

func (ctl *Controller) fail(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.Internal {
		ctl.log.WithError(err).Error("request failed", map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		})
	}
	c.JSON(kind.Status(), utils.ErrorBody(err))
}

func (ctl *Controller) badBody(c *gin.Context, err error) {
	ctl.fail(c, apperror.Wrap(apperror.Invalid, "invalid request body", err))
}

func pageFromQuery(c *gin.Context) (repository.Page, error) {
	page, err := pageNumber(c)
	if err != nil {
		return repository.Page{}, err
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultLimit)))
	if err != nil || limit < 0 {
		return repository.Page{}, apperror.New(apperror.Invalid, "invalid limit")
	}
	if limit > repository.MaxLimit {
		limit = repository.MaxLimit
	}
	return repository.Page{Page: page, Limit: limit, Name: c.DefaultQuery("name", "*")}, nil
}

func pageNumber(c *gin.Context) (int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 || page > repository.MaxPage {
		return 0, apperror.New(apperror.Invalid, "invalid page")
	}
	return page, nil
}

func uintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperror.Newf(apperror.Invalid, "invalid %s", name)
	}
	return uint(id), nil
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
