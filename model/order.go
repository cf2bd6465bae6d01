package model

import "time"

// Order is immutable once it has been confirmed.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	DinerID     *UserID     `json:"dinerId,omitempty" gorm:"index"`
	FranchiseID uint        `json:"franchiseId" gorm:"not null"`
	StoreID     uint        `json:"storeId" gorm:"not null"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Total sums the item prices.
func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price
	}
	return total
}

type OrderItem struct {
	ID          uint    `json:"-" gorm:"primaryKey"`
	OrderID     uint    `json:"-" gorm:"index;not null"`
	MenuID      uint    `json:"menuId" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null"`
}

type OrderRequest struct {
	FranchiseID uint        `json:"franchiseId"`
	StoreID     uint        `json:"storeId"`
	Items       []OrderItem `json:"items"`
}

type OrderResult struct {
	Order *Order `json:"order"`
	JWT   string `json:"jwt"`
}

type OrderPage struct {
	DinerID UserID  `json:"dinerId"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
}
