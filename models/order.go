package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

// Order statuses are free text in storage; these are the values the
// storefront knows how to display.
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID              string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string      `gorm:"type:varchar(128);not null;index;uniqueIndex:idx_order_idempotency" json:"user_id"`
	TotalAmount     float64     `gorm:"not null" json:"total_amount"`
	ShippingAddress string      `gorm:"not null" json:"shipping_address"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IdempotencyKey  *string     `gorm:"type:varchar(128);uniqueIndex:idx_order_idempotency" json:"-"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// OrderItem is an immutable snapshot of a cart line taken at checkout.
type OrderItem struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID      string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID    string    `gorm:"type:varchar(36);not null;index" json:"product_id"`
	ProductName  string    `gorm:"not null" json:"product_name"`
	ProductImage string    `json:"product_image,omitempty"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	Price        float64   `gorm:"not null" json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// OrderTotal sums price x quantity over order items.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return Round2(total)
}
