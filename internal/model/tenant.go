package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant statuses. TRIAL tenants behave like ACTIVE ones; anything else is
// rejected by the tenant resolver.
const (
	TenantStatusTrial     = "TRIAL"
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
)

// DaySchedule holds the opening hours for a single weekday
type DaySchedule struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Schedule maps lowercase weekday names ("monday"..."sunday") to opening hours
type Schedule map[string]DaySchedule

// Tenant represents a restaurant account. All catalog and order data is
// partitioned by tenant. Tenants are never hard-deleted.
type Tenant struct {
	ID             uint                         `json:"id" gorm:"primaryKey"`
	Slug           string                       `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name           string                       `json:"name" gorm:"type:varchar(255);not null"`
	Phone          string                       `json:"phone" gorm:"type:varchar(30)"`
	WhatsApp       string                       `json:"whatsapp" gorm:"type:varchar(30)"`
	Email          string                       `json:"email" gorm:"type:varchar(100)"`
	LogoURL        string                       `json:"logo_url" gorm:"type:varchar(500)"`
	PrimaryColor   string                       `json:"primary_color" gorm:"type:varchar(20)"`
	SecondaryColor string                       `json:"secondary_color" gorm:"type:varchar(20)"`
	Schedule       datatypes.JSONType[Schedule] `json:"schedule"`
	IsOpen         bool                         `json:"is_open" gorm:"default:true"`
	Status         string                       `json:"status" gorm:"type:varchar(20);default:'TRIAL'"`
	PlanID         *uint                        `json:"plan_id,omitempty" gorm:"index"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
	DeletedAt      gorm.DeletedAt               `json:"-" gorm:"index"`

	Plan *Plan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

// Accepting reports whether the tenant may serve storefront traffic
func (t *Tenant) Accepting() bool {
	return t.Status == TenantStatusActive || t.Status == TenantStatusTrial
}

// Plan represents a subscription tier referenced by tenants
type Plan struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);default:0"`
	MaxProducts int             `json:"max_products" gorm:"default:0"`
	MaxOrders   int             `json:"max_orders" gorm:"default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
