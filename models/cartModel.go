package models

import "gorm.io/gorm"

// CartItem carries the price observed when the product was added, so the
// client can render totals without re-reading the catalog.
type CartItem struct {
	gorm.Model
	CartID    uint    `json:"cartId"`
	ProductID uint    `json:"productId"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
