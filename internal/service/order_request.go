package service

import (
	"strconv"
	"strings"

	"cardapio-api/internal/apperror"
	"cardapio-api/internal/model"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is one storefront cart line. Price is accepted on the wire
// for backward compatibility with older storefront clients but is never used
// for pricing: the server-side product price is authoritative.
type OrderItemRequest struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// CreateOrderRequest is the storefront checkout payload
type CreateOrderRequest struct {
	CustomerName    string                 `json:"customer_name"`
	Phone           string                 `json:"phone"`
	Email           string                 `json:"email,omitempty"`
	Type            string                 `json:"type"`
	IsDelivery      *bool                  `json:"is_delivery,omitempty"`
	DeliveryAddress *model.DeliveryAddress `json:"delivery_address,omitempty"`
	PaymentMethod   string                 `json:"payment_method"`
	Notes           string                 `json:"notes,omitempty"`
	Items           []OrderItemRequest     `json:"items"`
	CouponCode      string                 `json:"coupon_code,omitempty"` // accepted, not yet applied
}

// Normalize fills the order type from the legacy is_delivery flag and
// upper-cases enum fields before validation
func (r *CreateOrderRequest) Normalize() {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.PaymentMethod = strings.ToUpper(strings.TrimSpace(r.PaymentMethod))
	r.Phone = strings.TrimSpace(r.Phone)
	r.CustomerName = strings.TrimSpace(r.CustomerName)

	if r.Type == "" && r.IsDelivery != nil {
		if *r.IsDelivery {
			r.Type = model.OrderTypeDelivery
		} else {
			r.Type = model.OrderTypePickup
		}
	}
}

// Validate checks the request shape and returns the list of offending fields
func (r *CreateOrderRequest) Validate() []apperror.FieldError {
	var fields []apperror.FieldError

	if r.CustomerName == "" {
		fields = append(fields, apperror.FieldError{Field: "customer_name", Message: "is required"})
	}
	if r.Phone == "" {
		fields = append(fields, apperror.FieldError{Field: "phone", Message: "is required"})
	}

	switch r.Type {
	case model.OrderTypeDelivery, model.OrderTypePickup:
	default:
		fields = append(fields, apperror.FieldError{Field: "type", Message: "must be DELIVERY or PICKUP"})
	}

	switch r.PaymentMethod {
	case model.PaymentMethodPix, model.PaymentMethodCard, model.PaymentMethodCash:
	default:
		fields = append(fields, apperror.FieldError{Field: "payment_method", Message: "must be PIX, CARD or CASH"})
	}

	if r.Type == model.OrderTypeDelivery {
		if r.DeliveryAddress == nil {
			fields = append(fields, apperror.FieldError{Field: "delivery_address", Message: "is required for delivery orders"})
		} else {
			addr := r.DeliveryAddress
			if addr.Street == "" {
				fields = append(fields, apperror.FieldError{Field: "delivery_address.street", Message: "is required"})
			}
			if addr.Neighborhood == "" {
				fields = append(fields, apperror.FieldError{Field: "delivery_address.neighborhood", Message: "is required"})
			}
			if addr.City == "" {
				fields = append(fields, apperror.FieldError{Field: "delivery_address.city", Message: "is required"})
			}
		}
	}

	if len(r.Items) == 0 {
		fields = append(fields, apperror.FieldError{Field: "items", Message: "must not be empty"})
	}
	for i, item := range r.Items {
		if item.ProductID == 0 {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "product_id"), Message: "is required"})
		}
		if item.Quantity <= 0 {
			fields = append(fields, apperror.FieldError{Field: itemField(i, "quantity"), Message: "must be a positive integer"})
		}
	}

	return fields
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}

// distinctProductIDs returns the set of product ids referenced by the request
func distinctProductIDs(items []OrderItemRequest) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// priceItems builds order lines from the authoritative product prices and
// returns them with the order total. Every line's unit price is a frozen copy
// of the product price at this moment.
func priceItems(products map[uint]model.Product, items []OrderItemRequest) ([]model.OrderItem, decimal.Decimal) {
	lines := make([]model.OrderItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		product := products[item.ProductID]
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))

		lines = append(lines, model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
			Notes:     item.Notes,
		})
		total = total.Add(subtotal)
	}

	return lines, total
}
