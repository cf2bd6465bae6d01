package storefront

import (
	"context"

	"jwtpizza/apperror"
	"jwtpizza/model"
)

// SelectStore starts a cart for another store. Items already chosen are kept.
func (s *Storefront) SelectStore(franchiseID, storeID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.FranchiseID = franchiseID
	s.cart.StoreID = storeID
}

func (s *Storefront) AddToCart(item model.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Items = append(s.cart.Items, item)
}

func (s *Storefront) RemoveFromCart(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart.Items) {
		return
	}
	s.cart.Items = append(s.cart.Items[:index:index], s.cart.Items[index+1:]...)
}

func (s *Storefront) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.clone()
}

func (s *Storefront) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = Cart{}
}

// Checkout submits the cart. The cart is emptied only when the order is confirmed.
func (s *Storefront) Checkout(ctx context.Context) (*model.OrderResult, error) {
	cart := s.Cart()
	if cart.StoreID == 0 || cart.FranchiseID == 0 {
		return nil, apperror.New(apperror.MissingFields, "choose a store first")
	}
	if cart.Empty() {
		return nil, apperror.New(apperror.MissingFields, "cart is empty")
	}

	res, err := s.api.PlaceOrder(ctx, s.token(), cart.Request())
	if err != nil {
		return nil, err
	}
	s.ClearCart()
	s.log.Info("order confirmed", map[string]interface{}{
		"orderId": res.Order.ID,
		"total":   FormatPrice(res.Order.Total()),
	})
	return res, nil
}

// History returns a page of the logged in user's orders.
func (s *Storefront) History(ctx context.Context, page int) (*model.OrderPage, error) {
	return s.api.Orders(ctx, s.token(), page)
}
