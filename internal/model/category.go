package model

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a named grouping of products within a tenant's menu
type Category struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     uint           `json:"tenant_id" gorm:"uniqueIndex:idx_categories_tenant_slug;not null"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug         string         `json:"slug" gorm:"type:varchar(100);uniqueIndex:idx_categories_tenant_slug;not null"`
	Description  string         `json:"description" gorm:"type:text"`
	DisplayOrder int            `json:"display_order" gorm:"default:0"`
	Active       bool           `json:"active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
