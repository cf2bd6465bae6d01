package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jwtpizza/model"
	"jwtpizza/utils"
)

// Register handles POST /api/auth.
func (ctl *Controller) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.badBody(c, err)
		return
	}
	res, err := ctl.svc.Register(c.Request.Context(), req)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Login handles PUT /api/auth.
func (ctl *Controller) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.badBody(c, err)
		return
	}
	res, err := ctl.svc.Login(c.Request.Context(), req)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout handles DELETE /api/auth. It always answers 204.
func (ctl *Controller) Logout(c *gin.Context) {
	token := utils.BearerToken(c.GetHeader("Authorization"))
	if err := ctl.svc.Logout(c.Request.Context(), token); err != nil {
		ctl.log.WithError(err).Warn("logout failed", nil)
	}
	c.Status(http.StatusNoContent)
}
