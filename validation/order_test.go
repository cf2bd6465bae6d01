package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"jwtpizza/apperror"
	"jwtpizza/model"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"valid", `{"franchiseId":2,"storeId":4,"items":[{"menuId":1,"description":"Veggie","price":0.0038}]}`, true},
		{"no items", `{"franchiseId":2,"storeId":4,"items":[]}`, false},
		{"missing store", `{"franchiseId":2,"items":[{"menuId":1}]}`, false},
		{"string menu id", `{"franchiseId":2,"storeId":4,"items":[{"menuId":"1"}]}`, false},
		{"negative price", `{"franchiseId":2,"storeId":4,"items":[{"menuId":1,"price":-1}]}`, false},
		{"not json", `{"franchiseId":`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Order(json.RawMessage(tt.body))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.Is(err, apperror.Invalid), "got %v", err)
		})
	}
}

func TestMenuItem(t *testing.T) {
	assert.NoError(t, MenuItem(model.MenuItem{Title: "Student", Description: "No topping", Image: "pizza9.png", Price: 0.0001}))
	assert.Error(t, MenuItem(model.MenuItem{Title: "Free"}))
	assert.Error(t, MenuItem(model.MenuItem{Price: 0.001}))
}

func TestOrder_Request(t *testing.T) {
	req := model.OrderRequest{FranchiseID: 1, StoreID: 1, Items: []model.OrderItem{{MenuID: 1}}}
	assert.NoError(t, Order(req))

	req.Items = nil
	assert.True(t, apperror.Is(Order(req), apperror.Invalid))
}
