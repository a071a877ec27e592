package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is a per-user line in the cart. Name, image and price are copied
// from the product when the line is first added.
type CartItem struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	ProductName  string    `gorm:"not null" json:"product_name"`
	ProductImage string    `json:"product_image,omitempty"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	Price        float64   `gorm:"not null" json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotal sums price x quantity over items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return Round2(total)
}

// ItemCount sums quantities over items.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
