package models

import (
	"time"

	"gorm.io/gorm"
)

type Farmer struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        *string   `gorm:"type:varchar(128);uniqueIndex" json:"user_id,omitempty"` // at most one farmer per user
	Name          string    `gorm:"not null" json:"name"`
	Location      string    `gorm:"not null;index" json:"location"`
	Image         string    `json:"image,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	Description   string    `json:"description,omitempty"`
	Distance      string    `json:"distance,omitempty"` // free text, e.g. "4.2 km"
	Rating        float64   `json:"rating"`
	Organic       bool      `json:"organic"`
	Specialty     []string  `gorm:"type:text;serializer:json" json:"specialty"`
	Featured      bool      `gorm:"index" json:"featured"`
	ContactPhone  string    `json:"contact_phone,omitempty"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	FarmSize      string    `json:"farm_size,omitempty"`
	YearsFarming  int       `json:"years_farming,omitempty"`
	Certification []string  `gorm:"type:text;serializer:json" json:"certification"`
	Products      []Product `gorm:"foreignKey:FarmerID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (f *Farmer) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// OwnedBy reports whether the farmer record belongs to userID.
func (f *Farmer) OwnedBy(userID string) bool {
	return f.UserID != nil && *f.UserID == userID
}

// HasSpecialty reports whether s is one of the farmer's specialties.
func (f *Farmer) HasSpecialty(s string) bool {
	for _, sp := range f.Specialty {
		if sp == s {
			return true
		}
	}
	return false
}
