package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jwtpizza/apperror"
	"jwtpizza/model"
	"jwtpizza/utils"
)

// Me answers null for anonymous callers.
func (ctl *Controller) Me(c *gin.Context) {
	user, err := ctl.svc.Me(c.Request.Context(), utils.IdentityFrom(c))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ctl *Controller) UpdateUser(c *gin.Context) {
	id, err := model.ParseUserID(c.Param("userId"))
	if err != nil {
		ctl.fail(c, apperror.New(apperror.Invalid, "invalid user id"))
		return
	}
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.badBody(c, err)
		return
	}
	res, err := ctl.svc.UpdateUser(c.Request.Context(), utils.IdentityFrom(c), id, req)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *Controller) DeleteUser(c *gin.Context) {
	id, err := model.ParseUserID(c.Param("userId"))
	if err != nil {
		ctl.fail(c, apperror.New(apperror.Invalid, "invalid user id"))
		return
	}
	if err := ctl.svc.DeleteUser(c.Request.Context(), utils.IdentityFrom(c), id); err != nil {
		ctl.fail(c, err)
		return
	}
	message(c, "user deleted")
}

func (ctl *Controller) ListUsers(c *gin.Context) {
	query, err := pageFromQuery(c)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	page, err := ctl.svc.ListUsers(c.Request.Context(), utils.IdentityFrom(c), query)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
