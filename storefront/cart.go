package storefront

import (
	"math"
	"strconv"

	"jwtpizza/model"
)

// Cart holds the pizzas selected for one store.
type Cart struct {
	FranchiseID uint
	StoreID     uint
	Items       []model.MenuItem
}

// Total is the sum of item prices rounded to three decimals.
func (c Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Price
	}
	return RoundPrice(sum)
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Request converts the cart into an order submission.
func (c Cart) Request() model.OrderRequest {
	items := make([]model.OrderItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = model.OrderItem{MenuID: it.ID, Description: it.Title, Price: it.Price}
	}
	return model.OrderRequest{FranchiseID: c.FranchiseID, StoreID: c.StoreID, Items: items}
}

func (c Cart) clone() Cart {
	c.Items = append([]model.MenuItem(nil), c.Items...)
	return c
}

func RoundPrice(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FormatPrice renders v like "0.008 ₿".
func FormatPrice(v float64) string {
	return strconv.FormatFloat(RoundPrice(v), 'f', -1, 64) + " ₿"
}
