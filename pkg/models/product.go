package models

import (
	"time"
)

// Product is an inventory stock item keyed by its EAN barcode.
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EAN         string    `gorm:"type:varchar(13);uniqueIndex;not null" json:"ean"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	Category    string    `gorm:"type:varchar(50)" json:"category"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ValidEAN accepts EAN-8 and EAN-13 codes.
func ValidEAN(ean string) bool {
	if len(ean) != 8 && len(ean) != 13 {
		return false
	}
	for _, r := range ean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
