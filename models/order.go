package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

const (
	OrderTypeDineIn  = "dine_in"
	OrderTypeTakeout = "takeout"
)

// Order is hard-deleted (no DeletedAt column): removing one cascades through its
// items and their option snapshots. TotalPrice is derived server-side and never
// taken from the request.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	TableNumber *string     `json:"table_number"`
	OrderType   string      `json:"order_type" gorm:"not null;default:dine_in"`
	TotalPrice  float64     `json:"total_price" gorm:"not null"`
	Status      string      `json:"status" gorm:"not null;index"`
	CreatedAt   time.Time   `json:"created_at"`
	StoreID     *uint       `json:"store_id" gorm:"index"`
	Store       *Store      `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem freezes the product name and unit price at order time so later
// catalog edits never rewrite history.
type OrderItem struct {
	ID              uint              `json:"-" gorm:"primaryKey"`
	OrderID         uint              `json:"-" gorm:"not null;index"`
	ProductID       uint              `json:"product_id" gorm:"not null"`
	ProductName     string            `json:"product_name" gorm:"not null"`
	Quantity        int               `json:"quantity" gorm:"not null"`
	UnitPrice       float64           `json:"unit_price" gorm:"not null"`
	SelectedOptions []OrderItemOption `json:"selected_options" gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

// OrderItemOption is a snapshot of a chosen customization; it never points back
// at the live catalog option.
type OrderItemOption struct {
	ID          uint    `json:"-" gorm:"primaryKey"`
	OrderItemID uint    `json:"-" gorm:"not null;index"`
	OptionName  string  `json:"option_name" gorm:"not null"`
	PriceDelta  float64 `json:"price_delta" gorm:"not null"`
}
