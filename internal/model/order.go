package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order lifecycle statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Order types
const (
	OrderTypeDelivery = "DELIVERY"
	OrderTypePickup   = "PICKUP"
)

// Payment methods
const (
	PaymentMethodPix  = "PIX"
	PaymentMethodCard = "CARD"
	PaymentMethodCash = "CASH"
)

// Payment statuses
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// allowedTransitions is the closed transition table for the order lifecycle.
// CANCELLED is reachable from every non-terminal state; DELIVERED and
// CANCELLED are terminal.
var allowedTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ValidOrderStatus reports whether s is a known lifecycle status
func ValidOrderStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to the next
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether no further transitions are allowed from s
func TerminalStatus(s string) bool {
	return len(allowedTransitions[s]) == 0
}

// DeliveryAddress is the structured address persisted for delivery orders
type DeliveryAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code,omitempty"`
	Reference    string `json:"reference,omitempty"`
}

// Order belongs to exactly one tenant and one customer. OrderNumber is the
// tenant-scoped human-readable identifier, distinct from the row ID.
type Order struct {
	ID              uint                                 `json:"id" gorm:"primaryKey"`
	TenantID        uint                                 `json:"tenant_id" gorm:"uniqueIndex:idx_orders_tenant_number;not null"`
	CustomerID      uint                                 `json:"customer_id" gorm:"index;not null"`
	OrderNumber     string                               `json:"order_number" gorm:"type:varchar(20);uniqueIndex:idx_orders_tenant_number;not null"`
	Type            string                               `json:"type" gorm:"type:varchar(20);not null"`
	DeliveryAddress *datatypes.JSONType[DeliveryAddress] `json:"delivery_address,omitempty"`
	PaymentMethod   string                               `json:"payment_method" gorm:"type:varchar(20);not null"`
	Notes           string                               `json:"notes" gorm:"type:text"`
	Total           decimal.Decimal                      `json:"total" gorm:"type:numeric(12,2);not null"`
	Status          string                               `json:"status" gorm:"type:varchar(20);index;default:'PENDING'"`
	PaymentStatus   string                               `json:"payment_status" gorm:"type:varchar(20);default:'PENDING'"`
	PaymentID       string                               `json:"payment_id,omitempty" gorm:"type:varchar(100);index"`
	ConfirmedAt     *time.Time                           `json:"confirmed_at,omitempty"`
	DeliveredAt     *time.Time                           `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time                           `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time                            `json:"created_at"`
	UpdatedAt       time.Time                            `json:"updated_at"`

	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Customer Customer    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// OrderItem references one product. UnitPrice is a frozen copy of the product
// price at order time so historical totals survive later price changes.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	Notes     string          `json:"notes" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
