package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jwtpizza/apperror"
	"jwtpizza/model"
	"jwtpizza/utils"
)

const maxImportSize = 5 << 20

func (ctl *Controller) Menu(c *gin.Context) {
	menu, err := ctl.svc.Menu(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ctl *Controller) AddMenuItem(c *gin.Context) {
	var item model.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		ctl.badBody(c, err)
		return
	}
	menu, err := ctl.svc.AddMenuItem(c.Request.Context(), utils.IdentityFrom(c), item)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// ImportMenu handles POST /api/order/menu/import with an xlsx upload in field "file".
func (ctl *Controller) ImportMenu(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctl.fail(c, apperror.New(apperror.MissingFields, "Excel file is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		ctl.fail(c, apperror.New(apperror.Invalid, "Excel file too large"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ctl.fail(c, apperror.Wrap(apperror.Internal, "failed to open uploaded file", err))
		return
	}
	defer file.Close()

	count, err := ctl.svc.ImportMenu(c.Request.Context(), utils.IdentityFrom(c), file)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "menu imported",
		"count":   count,
	})
}

func (ctl *Controller) PlaceOrder(c *gin.Context) {
	var req model.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.badBody(c, err)
		return
	}
	res, err := ctl.svc.PlaceOrder(c.Request.Context(), utils.IdentityFrom(c), req)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *Controller) Orders(c *gin.Context) {
	page, err := pageNumber(c)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	orders, err := ctl.svc.Orders(c.Request.Context(), utils.IdentityFrom(c), page)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
