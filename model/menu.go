package model

type MenuItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"size:100;not null"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" gorm:"not null"`
	Description string  `json:"description"`
}
