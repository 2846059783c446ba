package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Nutrition holds optional nutrition and allergen metadata for a product
type Nutrition struct {
	Calories  int      `json:"calories,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
}

// Product represents a menu item. The stored price is authoritative for order
// totals; prices submitted by storefront clients are never trusted.
type Product struct {
	ID          uint                           `json:"id" gorm:"primaryKey"`
	TenantID    uint                           `json:"tenant_id" gorm:"uniqueIndex:idx_products_tenant_slug;not null"`
	CategoryID  uint                           `json:"category_id" gorm:"index"`
	Name        string                         `json:"name" gorm:"type:varchar(255);not null"`
	Slug        string                         `json:"slug" gorm:"type:varchar(255);uniqueIndex:idx_products_tenant_slug;not null"`
	Description string                         `json:"description" gorm:"type:text"`
	Price       decimal.Decimal                `json:"price" gorm:"type:numeric(10,2);not null"`
	Available   bool                           `json:"available" gorm:"default:true"`
	Stock       *int                           `json:"stock,omitempty"`
	ImageURL    string                         `json:"image_url" gorm:"type:varchar(500)"`
	Nutrition   *datatypes.JSONType[Nutrition] `json:"nutrition,omitempty"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                 `json:"-" gorm:"index"`

	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
