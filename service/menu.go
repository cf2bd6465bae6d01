package service

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/model"
	"jwtpizza/validation"
)

// MenuSheet is the worksheet read by ImportMenu.
const MenuSheet = "Sheet1"

func (s *Service) Menu(ctx context.Context) ([]model.MenuItem, error) {
	menu, err := s.repo.Menu(ctx)
	if err != nil {
		return nil, fromRepo(err, "", "")
	}
	return menu, nil
}

// AddMenuItem appends item to the menu and returns the full menu.
func (s *Service) AddMenuItem(ctx context.Context, actor auth.Identity, item model.MenuItem) ([]model.MenuItem, error) {
	if err := auth.Authorize(actor, auth.ManageMenu, auth.Target{}); err != nil {
		return nil, err
	}
	item.ID = 0
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return nil, apperror.New(apperror.MissingFields, "menu item title is required")
	}
	if err := validation.MenuItem(item); err != nil {
		return nil, err
	}
	if err := s.repo.AddMenuItems(ctx, []model.MenuItem{item}); err != nil {
		return nil, fromRepo(err, "", "")
	}
	return s.Menu(ctx)
}

// ImportMenu reads menu items from an xlsx workbook. Rows are title, price, description,
// image after a header row. Unusable rows are skipped.
func (s *Service) ImportMenu(ctx context.Context, actor auth.Identity, r io.Reader) (int, error) {
	if err := auth.Authorize(actor, auth.ManageMenu, auth.Target{}); err != nil {
		return 0, err
	}

	xl, err := excelize.OpenReader(r)
	if err != nil {
		return 0, apperror.Wrap(apperror.Invalid, "failed to parse Excel file", err)
	}
	defer xl.Close()

	rows, err := xl.GetRows(MenuSheet)
	if err != nil || len(rows) < 2 {
		return 0, apperror.New(apperror.MissingFields, "Excel must have at least one row of data")
	}

	var items []model.MenuItem
	for i, row := range rows[1:] {
		item, ok := menuRow(row)
		if ok && validation.MenuItem(item) != nil {
			ok = false
		}
		if !ok {
			s.log.Warn("skipping menu row", map[string]interface{}{"row": i + 2})
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return 0, apperror.New(apperror.MissingFields, "no valid menu rows")
	}

	if err := s.repo.AddMenuItems(ctx, items); err != nil {
		return 0, fromRepo(err, "", "")
	}
	s.log.Info("menu imported", map[string]interface{}{"count": len(items)})
	return len(items), nil
}

func menuRow(row []string) (model.MenuItem, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	item := model.MenuItem{
		Title:       cell(0),
		Description: cell(2),
		Image:       cell(3),
	}
	price, err := strconv.ParseFloat(cell(1), 64)
	if err != nil || item.Title == "" || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return model.MenuItem{}, false
	}
	item.Price = price
	return item, true
}
