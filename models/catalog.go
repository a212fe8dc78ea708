package models

import (
	"time"

	"gorm.io/gorm"
)

// Catalog rows are soft-deleted: a hidden row keeps its id so historical order
// snapshots stay valid, and read paths skip it through gorm's default scope.

type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Name      string         `json:"name" gorm:"uniqueIndex;not null"`
	SortOrder int            `json:"sort_order" gorm:"default:0"`
	Products  []Product      `json:"products" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
	DeletedAt  gorm.DeletedAt  `json:"-" gorm:"index"`
	CategoryID uint            `json:"category_id" gorm:"not null;index"`
	Name       string          `json:"name" gorm:"not null"`
	BasePrice  float64         `json:"base_price" gorm:"not null"`
	SortOrder  int             `json:"sort_order" gorm:"default:0"`
	Options    []ProductOption `json:"options" gorm:"foreignKey:ProductID"`
}

type ProductOption struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	ProductID  uint           `json:"product_id" gorm:"not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	PriceDelta float64        `json:"price_delta" gorm:"default:0"`
	IsRequired bool           `json:"is_required" gorm:"default:false"`
	SortOrder  int            `json:"sort_order" gorm:"default:0"`
}
