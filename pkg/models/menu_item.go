package models

import (
	"time"
)

// Menu categories.
const (
	CategoryAppetizer = "appetizer"
	CategoryMain      = "main"
	CategoryDessert   = "dessert"
	CategoryBeverage  = "beverage"
	CategorySide      = "side"
)

type MenuItem struct {
	ID              string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name            string             `gorm:"type:varchar(100);not null" json:"name"`
	Description     string             `gorm:"type:text" json:"description"`
	ImageURL        string             `gorm:"type:varchar(255)" json:"image_url"`
	Price           float64            `gorm:"not null" json:"price"`
	TaxAmount       *float64           `json:"tax_amount"`
	Category        string             `gorm:"type:varchar(20);not null" json:"category"`
	IsAvailable     bool               `gorm:"default:true" json:"is_available"`
	PreparationTime int                `gorm:"not null" json:"preparation_time"`
	Allergens       []string           `gorm:"serializer:json;type:text" json:"allergens"`
	NutritionalInfo map[string]float64 `gorm:"serializer:json;type:text" json:"nutritional_info"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func ValidCategory(category string) bool {
	switch category {
	case CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage, CategorySide:
		return true
	}
	return false
}
