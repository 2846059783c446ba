package service

import (
	"context"
	"errors"
	"time"

	"cardapio-api/internal/apperror"
	"cardapio-api/internal/model"
	"cardapio-api/prometheus"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService implements the order engine: validation, pricing, customer
// upsert, order-number allocation and persistence, all inside one database
// transaction so a failure at any step leaves no partial state.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service on top of the given database handle
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// lockRow applies SELECT ... FOR UPDATE. SQLite has no row locks; its
// single-writer transaction model already serializes the allocation there.
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Create validates the checkout request and commits the order atomically.
// Pricing always uses the stored product price; requests referencing any
// unavailable or foreign-tenant product fail as a whole.
func (s *OrderService) Create(ctx context.Context, tenantID uint, req *CreateOrderRequest) (*model.Order, error) {
	req.Normalize()
	if fields := req.Validate(); len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	var created model.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the tenant row for the duration of the transaction. This
		// serializes order-number allocation per tenant: two concurrent
		// checkouts for the same tenant cannot both read the same latest
		// order number.
		var tenant model.Tenant
		if err := lockRow(tx).First(&tenant, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("tenant")
			}
			return err
		}

		// Load the requested products, restricted to this tenant and to
		// currently available items. All-or-nothing: if any id is missing
		// from the result the whole order is rejected.
		ids := distinctProductIDs(req.Items)
		var products []model.Product
		if err := tx.Where("tenant_id = ? AND available = ? AND id IN ?", tenantID, true, ids).
			Find(&products).Error; err != nil {
			return err
		}
		if len(products) != len(ids) {
			return apperror.ProductUnavailable()
		}

		byID := make(map[uint]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		lines, total := priceItems(byID, req.Items)

		// Resolve the customer by (tenant, phone), creating the record on
		// first contact and refreshing name/email otherwise.
		var customer model.Customer
		err := tx.Where("tenant_id = ? AND phone = ?", tenantID, req.Phone).First(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = model.Customer{
				TenantID: tenantID,
				Phone:    req.Phone,
				Name:     req.CustomerName,
				Email:    req.Email,
			}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			updates := map[string]interface{}{"name": req.CustomerName}
			if req.Email != "" {
				updates["email"] = req.Email
			}
			if err := tx.Model(&customer).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Allocate the next order number under the tenant lock
		number := FirstOrderNumber
		var last model.Order
		err = tx.Select("order_number").
			Where("tenant_id = ?", tenantID).
			Order("id DESC").
			First(&last).Error
		switch {
		case err == nil:
			number, err = NextOrderNumber(last.OrderNumber)
			if err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		order := model.Order{
			TenantID:      tenantID,
			CustomerID:    customer.ID,
			OrderNumber:   number,
			Type:          req.Type,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Total:         total,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
			Items:         lines,
		}
		if req.Type == model.OrderTypeDelivery {
			addr := datatypes.NewJSONType(*req.DeliveryAddress)
			order.DeliveryAddress = &addr
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Lifetime counters stay in lockstep with committed orders because
		// this update shares the order's transaction
		if err := tx.Model(&model.Customer{}).Where("id = ?", customer.ID).
			Updates(map[string]interface{}{
				"total_orders": gorm.Expr("total_orders + 1"),
				"total_spent":  gorm.Expr("total_spent + ?", total),
			}).Error; err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Return the order joined with product details and the customer record
	if err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Customer").
		First(&created, created.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns a single order scoped to the tenant
func (s *OrderService) Get(ctx context.Context, tenantID, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Customer").
		Where("tenant_id = ?", tenantID).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order")
		}
		return nil, err
	}
	return &order, nil
}

// List returns the tenant's orders, newest first, optionally filtered by status
func (s *OrderService) List(ctx context.Context, tenantID uint, status string) ([]model.Order, error) {
	query := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Customer").
		Where("tenant_id = ?", tenantID).
		Order("id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByPhone returns a customer's orders for the storefront tracking view
func (s *OrderService) ListByPhone(ctx context.Context, tenantID uint, phone string) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.tenant_id = ? AND customers.phone = ?", tenantID, phone).
		Order("orders.id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus transitions an order through the lifecycle. The transition
// must be allowed by the transition table; timestamps are stamped on entry
// to CONFIRMED, DELIVERED and CANCELLED and are never cleared.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID uint, next string) (*model.Order, error) {
	if !model.ValidOrderStatus(next) {
		return nil, apperror.Validation([]apperror.FieldError{
			{Field: "status", Message: "unknown status"},
		})
	}

	var order model.Order
	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("order")
			}
			return err
		}

		if !model.CanTransition(order.Status, next) {
			return apperror.InvalidTransition(order.Status, next)
		}
		previous = order.Status

		now := time.Now()
		updates := map[string]interface{}{"status": next}
		switch next {
		case model.OrderStatusConfirmed:
			if order.ConfirmedAt == nil {
				updates["confirmed_at"] = now
				order.ConfirmedAt = &now
			}
		case model.OrderStatusDelivered:
			if order.DeliveredAt == nil {
				updates["delivered_at"] = now
				order.DeliveredAt = &now
			}
		case model.OrderStatusCancelled:
			if order.CancelledAt == nil {
				updates["cancelled_at"] = now
				order.CancelledAt = &now
			}
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordStatusTransition(previous, next)
	return &order, nil
}

// Cancel forces an order to CANCELLED. Allowed from any non-terminal state.
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uint) (*model.Order, error) {
	return s.UpdateStatus(ctx, tenantID, orderID, model.OrderStatusCancelled)
}

// AttachPaymentID records the provider charge id on an order. The payment
// status is left untouched: a fresh charge for an already-paid order must not
// revert it to pending.
func (s *OrderService) AttachPaymentID(ctx context.Context, orderID uint, paymentID string) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("payment_id", paymentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("order")
	}
	return nil
}

// MarkPayment records the payment outcome reported by the provider webhook.
// A PAID outcome confirms the order; a FAILED outcome cancels it. Orders in
// a terminal state keep their lifecycle status but still record the payment
// result.
func (s *OrderService) MarkPayment(ctx context.Context, orderID uint, paymentStatus, orderStatus, paymentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("order")
			}
			return err
		}

		updates := map[string]interface{}{"payment_status": paymentStatus}
		if paymentID != "" {
			updates["payment_id"] = paymentID
		}

		if orderStatus != "" && orderStatus != order.Status && model.CanTransition(order.Status, orderStatus) {
			now := time.Now()
			updates["status"] = orderStatus
			switch orderStatus {
			case model.OrderStatusConfirmed:
				if order.ConfirmedAt == nil {
					updates["confirmed_at"] = now
				}
			case model.OrderStatusCancelled:
				if order.CancelledAt == nil {
					updates["cancelled_at"] = now
				}
			}
		}

		return tx.Model(&order).Updates(updates).Error
	})
}
