package models

import (
	"time"
)

// Order types.
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeout  = "takeout"
	OrderTypeDelivery = "delivery"
)

type Order struct {
	ID                      string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber             string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	TableNumber             int         `json:"table_number"`
	CustomerName            string      `gorm:"type:varchar(100)" json:"customer_name"`
	Status                  string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	OrderType               string      `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	TotalAmount             float64     `gorm:"type:decimal(10,2);default:0" json:"total_amount"`
	TaxAmount               float64     `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	DiscountAmount          float64     `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	FinalAmount             float64     `gorm:"type:decimal(10,2);default:0" json:"final_amount"`
	SpecialInstructions     string      `gorm:"type:text" json:"special_instructions"`
	EstimatedCompletionTime *time.Time  `json:"estimated_completion_time"`
	Items                   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID                  string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID             string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	MenuItemID          string    `gorm:"type:varchar(36);not null;index" json:"menu_item_id"`
	MenuItemName        string    `gorm:"type:varchar(100);not null" json:"menu_item_name"`
	Quantity            int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice           float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice          float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	SpecialInstructions string    `gorm:"type:text" json:"special_instructions"`
	Status              string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
