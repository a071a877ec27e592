package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	FarmerID    string  `gorm:"type:varchar(36);not null;index" json:"farmer_id"`
	Farmer      *Farmer `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Name        string  `gorm:"not null" json:"name"`
	Price       float64 `gorm:"not null" json:"price"`
	Unit        string  `gorm:"not null" json:"unit"` // e.g. "kg", "dozen", "bunch"
	Category    string  `gorm:"not null;index" json:"category"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	Inventory   int     `gorm:"not null;default:0" json:"inventory"`
	Organic     bool    `json:"organic"`
	Featured    bool    `gorm:"index" json:"featured"`
	Discount    float64 `gorm:"not null;default:0" json:"discount,omitempty"` // percentage, 0..100

	// Not persisted; filled after every load.
	DiscountedPrice float64 `gorm:"-" json:"discounted_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.DiscountedPrice = p.EffectivePrice()
	return nil
}

func (p *Product) AfterSave(tx *gorm.DB) error {
	p.DiscountedPrice = p.EffectivePrice()
	return nil
}

// EffectivePrice is the price a customer pays after the discount.
func (p *Product) EffectivePrice() float64 {
	return DiscountedPrice(p.Price, p.Discount)
}
