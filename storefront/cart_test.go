package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jwtpizza/model"
)

func TestCartTotal(t *testing.T) {
	cart := Cart{Items: []model.MenuItem{
		{ID: 1, Title: "Veggie", Price: 0.0038},
		{ID: 2, Title: "Pepperoni", Price: 0.0042},
	}}
	assert.Equal(t, 0.008, cart.Total())
	assert.Equal(t, "0.008 ₿", FormatPrice(cart.Total()))

	req := cart.Request()
	assert.Len(t, req.Items, 2)
	assert.Equal(t, uint(2), req.Items[1].MenuID)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 ₿"},
		{0.0038, "0.004 ₿"},
		{0.0125, "0.013 ₿"},
		{1500, "1500 ₿"},
		{0.1 + 0.2, "0.3 ₿"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in))
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "KC", Initials("Kai Chen"))
	assert.Equal(t, "PD", Initials("pizza diner"))
	assert.Equal(t, "", Initials("  "))
}
