package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jwtpizza/apperror"
	"jwtpizza/auth"
	"jwtpizza/model"
)

func veggieAndPepperoni(franchiseID, storeID uint) model.OrderRequest {
	return model.OrderRequest{
		FranchiseID: franchiseID,
		StoreID:     storeID,
		Items:       []model.OrderItem{{MenuID: 1}, {MenuID: 2}},
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	kai, _ := login(t, svc, "d@jwt.com", "a")

	res, err := svc.PlaceOrder(ctx, kai, veggieAndPepperoni(2, 1))
	require.NoError(t, err)
	assert.NotZero(t, res.Order.ID)
	assert.NotEmpty(t, res.JWT)
	require.NotNil(t, res.Order.DinerID)
	assert.Equal(t, kai.UserID, *res.Order.DinerID)
	require.Len(t, res.Order.Items, 2)
	assert.Equal(t, "Veggie", res.Order.Items[0].Description)
	assert.InDelta(t, 0.008, res.Order.Total(), 1e-9)

	claims, err := svc.tokens.VerifyOrder(res.JWT)
	require.NoError(t, err)
	assert.EqualValues(t, res.Order.ID, claims["order"])

	f, err := repo.Franchise(ctx, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2000.008, f.Stores[0].TotalRevenue, 1e-9)

	history, err := svc.Orders(ctx, kai, 0)
	require.NoError(t, err)
	require.Len(t, history.Orders, 1)
	assert.Equal(t, res.Order.ID, history.Orders[0].ID)
	assert.Equal(t, kai.UserID, history.DinerID)
}

func TestPlaceOrder_PricesComeFromMenu(t *testing.T) {
	svc, _ := newTestService(t)

	req := veggieAndPepperoni(1, 1)
	req.Items[0].Price = 0.0000001
	req.Items[0].Description = "free pizza"

	res, err := svc.PlaceOrder(context.Background(), auth.Anonymous, req)
	require.NoError(t, err)
	assert.Nil(t, res.Order.DinerID, "anonymous orders carry no diner")
	assert.InDelta(t, 0.0038, res.Order.Items[0].Price, 1e-9)
	assert.Equal(t, "Veggie", res.Order.Items[0].Description)
}

func TestPlaceOrder_Failures(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.OrderRequest
		kind apperror.Kind
	}{
		{"unknown store", veggieAndPepperoni(1, 99), apperror.NotFound},
		{"unknown franchise", veggieAndPepperoni(99, 1), apperror.NotFound},
		{"unknown menu item", model.OrderRequest{FranchiseID: 1, StoreID: 1, Items: []model.OrderItem{{MenuID: 42}}}, apperror.NotFound},
		{"no items", model.OrderRequest{FranchiseID: 1, StoreID: 1}, apperror.Invalid},
		{"missing store", model.OrderRequest{FranchiseID: 1, Items: []model.OrderItem{{MenuID: 1}}}, apperror.Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, auth.Anonymous, tt.req)
			assertKind(t, err, tt.kind)
		})
	}

	f, err := repo.Franchise(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1000, f.Stores[0].TotalRevenue, 1e-9, "failed orders do not touch revenue")
}

func TestOrders_RequiresLogin(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Orders(context.Background(), auth.Anonymous, 0)
	assertKind(t, err, apperror.Unauthorized)
}
