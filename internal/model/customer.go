package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is identified by (tenant, phone). A row is created on the first
// order from a new phone number; the lifetime counters are incremented on
// every order committed for that tenant+phone pair.
type Customer struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	TenantID    uint            `json:"tenant_id" gorm:"uniqueIndex:idx_customers_tenant_phone;not null"`
	Phone       string          `json:"phone" gorm:"type:varchar(30);uniqueIndex:idx_customers_tenant_phone;not null"`
	Name        string          `json:"name" gorm:"type:varchar(255)"`
	Email       string          `json:"email" gorm:"type:varchar(100)"`
	TotalOrders int             `json:"total_orders" gorm:"default:0"`
	TotalSpent  decimal.Decimal `json:"total_spent" gorm:"type:numeric(12,2);default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
