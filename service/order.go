package service

import (
	"context"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/metrics"
	"jwtpizza/model"
	"jwtpizza/repository"
	"jwtpizza/validation"
)

// PlaceOrder confirms an order for one store. Anonymous callers may order; their orders
// carry no diner. Descriptions and prices come from the menu.
func (s *Service) PlaceOrder(ctx context.Context, actor auth.Identity, req model.OrderRequest) (*model.OrderResult, error) {
	if err := validation.Order(req); err != nil {
		return nil, err
	}

	menu, err := s.repo.Menu(ctx)
	if err != nil {
		return nil, fromRepo(err, "", "")
	}
	byID := make(map[uint]model.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	order := &model.Order{
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
		Date:        s.now().UTC(),
		Items:       make([]model.OrderItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		m, ok := byID[it.MenuID]
		if !ok {
			return nil, apperror.Newf(apperror.NotFound, "unknown menu item %d", it.MenuID)
		}
		order.Items = append(order.Items, model.OrderItem{
			MenuID:      m.ID,
			Description: m.Title,
			Price:       m.Price,
		})
	}
	if actor.Authenticated() {
		diner := actor.UserID
		order.DinerID = &diner
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fromRepo(err, "unknown store", "")
	}

	token, err := s.tokens.SignOrder(order)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "sign order", err)
	}

	total := order.Total()
	metrics.OrdersPlaced.Inc()
	metrics.OrderRevenue.Add(total)
	s.log.Info("order placed", map[string]interface{}{
		"orderId":     order.ID,
		"franchiseId": order.FranchiseID,
		"storeId":     order.StoreID,
		"items":       len(order.Items),
		"total":       total,
	})
	return &model.OrderResult{Order: order, JWT: token}, nil
}

// Orders returns one page of the caller's orders, newest first.
func (s *Service) Orders(ctx context.Context, actor auth.Identity, page int) (*model.OrderPage, error) {
	if err := auth.Authorize(actor, auth.ViewOrders, auth.Target{UserID: actor.UserID}); err != nil {
		return nil, err
	}
	orders, _, err := s.repo.OrdersForDiner(ctx, actor.UserID, repository.Page{Page: page})
	if err != nil {
		return nil, fromRepo(err, "", "")
	}
	return &model.OrderPage{DinerID: actor.UserID, Orders: orders, Page: page}, nil
}
