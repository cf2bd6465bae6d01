package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jwtpizza/apperror"
	"jwtpizza/model"
	"jwtpizza/utils"
)

func (ctl *Controller) ListFranchises(c *gin.Context) {
	query, err := pageFromQuery(c)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	page, err := ctl.svc.Franchises(c.Request.Context(), utils.IdentityFrom(c), query)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UserFranchises handles GET /api/franchise/:id where id names a user.
func (ctl *Controller) UserFranchises(c *gin.Context) {
	userID, err := model.ParseUserID(c.Param("id"))
	if err != nil {
		ctl.fail(c, apperror.New(apperror.Invalid, "invalid user id"))
		return
	}
	franchises, err := ctl.svc.UserFranchises(c.Request.Context(), utils.IdentityFrom(c), userID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, franchises)
}

func (ctl *Controller) CreateFranchise(c *gin.Context) {
	var req model.CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.badBody(c, err)
		return
	}
	f, err := ctl.svc.CreateFranchise(c.Request.Context(), utils.IdentityFrom(c), req)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (ctl *Controller) DeleteFranchise(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.svc.DeleteFranchise(c.Request.Context(), utils.IdentityFrom(c), id); err != nil {
		ctl.fail(c, err)
		return
	}
	message(c, "franchise deleted")
}

func (ctl *Controller) CreateStore(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		ctl.fail(c, err)
		return
	}
	var req model.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.badBody(c, err)
		return
	}
	store, err := ctl.svc.CreateStore(c.Request.Context(), utils.IdentityFrom(c), id, req)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (ctl *Controller) DeleteStore(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		ctl.fail(c, err)
		return
	}
	storeID, err := uintParam(c, "storeId")
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.svc.DeleteStore(c.Request.Context(), utils.IdentityFrom(c), id, storeID); err != nil {
		ctl.fail(c, err)
		return
	}
	message(c, "store deleted")
}
