package service

import (
	"context"
	"testing"

	"cardapio-api/internal/apperror"
	"cardapio-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the whole test
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Plan{},
		&model.Tenant{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
	))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB) *model.Tenant {
	t.Helper()
	tenant := model.Tenant{
		Slug:   "pizzaria",
		Name:   "Pizzaria do João",
		Status: model.TenantStatusActive,
		IsOpen: true,
	}
	require.NoError(t, db.Create(&tenant).Error)
	return &tenant
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID uint, name, price string, available bool) *model.Product {
	t.Helper()
	product := model.Product{
		TenantID:  tenantID,
		Name:      name,
		Slug:      name,
		Price:     decimal.RequireFromString(price),
		Available: available,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func checkout(items ...OrderItemRequest) *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:  "Maria Silva",
		Phone:         "11999990000",
		Type:          model.OrderTypePickup,
		PaymentMethod: model.PaymentMethodPix,
		Items:         items,
	}
}

func TestCreateAssignsSequentialOrderNumbers(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	pizza := seedProduct(t, db, tenant.ID, "pizza-margherita", "30.00", true)
	svc := NewOrderService(db)

	first, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "#0001", first.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, first.Status)
	assert.Equal(t, model.PaymentStatusPending, first.PaymentStatus)
	assert.True(t, first.Total.Equal(decimal.RequireFromString("30.00")))

	second, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, "#0002", second.OrderNumber)
	assert.True(t, second.Total.Equal(decimal.RequireFromString("60.00")))
}

func TestCreateUpsertsCustomerAndCounters(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	pizza := seedProduct(t, db, tenant.ID, "pizza-calabresa", "40.00", true)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// Second order from the same phone reuses the customer row
	req := checkout(OrderItemRequest{ProductID: pizza.ID, Quantity: 2})
	req.CustomerName = "Maria S. Oliveira"
	_, err = svc.Create(context.Background(), tenant.ID, req)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Customer{}).
		Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var customer model.Customer
	require.NoError(t, db.Where("tenant_id = ? AND phone = ?", tenant.ID, "11999990000").
		First(&customer).Error)
	assert.Equal(t, 2, customer.TotalOrders)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("120.00")),
		"total_spent=%s", customer.TotalSpent)
	assert.Equal(t, "Maria S. Oliveira", customer.Name)
}

func TestCreateUnavailableProductLeavesNoState(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	pizza := seedProduct(t, db, tenant.ID, "pizza-portuguesa", "35.00", true)
	soldOut := seedProduct(t, db, tenant.ID, "pudim", "12.00", false)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
		OrderItemRequest{ProductID: soldOut.ID, Quantity: 1},
	))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeProductUnavailable, apperror.As(err).Code)

	// The whole checkout rolled back: no order, no items, no customer
	var orders, items, customers int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&model.Customer{}).Count(&customers).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, customers)
}

func TestCreateFailureKeepsExistingCounters(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	pizza := seedProduct(t, db, tenant.ID, "pizza-quatro-queijos", "45.00", true)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// A failed checkout from the same phone must not move the counters
	_, err = svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
		OrderItemRequest{ProductID: 9999, Quantity: 1},
	))
	require.Error(t, err)

	var customer model.Customer
	require.NoError(t, db.Where("tenant_id = ? AND phone = ?", tenant.ID, "11999990000").
		First(&customer).Error)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("45.00")))

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)
}

func TestCreateRejectsForeignTenantProduct(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	other := model.Tenant{Slug: "hamburgueria", Name: "Burger House", Status: model.TenantStatusActive}
	require.NoError(t, db.Create(&other).Error)
	foreign := seedProduct(t, db, other.ID, "x-bacon", "25.00", true)
	svc := NewOrderService(db)

	_, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: foreign.ID, Quantity: 1},
	))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeProductUnavailable, apperror.As(err).Code)
}

func TestUpdateStatusPersistsAllowedTransition(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	pizza := seedProduct(t, db, tenant.ID, "pizza-napolitana", "38.00", true)
	svc := NewOrderService(db)

	order, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
	))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), tenant.ID, order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)

	// Skipping ahead is rejected and nothing is written
	_, err = svc.UpdateStatus(context.Background(), tenant.ID, order.ID, model.OrderStatusDelivered)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidTransition, apperror.As(err).Code)

	var persisted model.Order
	require.NoError(t, db.First(&persisted, order.ID).Error)
	assert.Equal(t, model.OrderStatusConfirmed, persisted.Status)
}

func TestAttachPaymentIDKeepsPaymentStatus(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db)
	pizza := seedProduct(t, db, tenant.ID, "pizza-frango", "32.00", true)
	svc := NewOrderService(db)

	order, err := svc.Create(context.Background(), tenant.ID, checkout(
		OrderItemRequest{ProductID: pizza.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.MarkPayment(context.Background(), order.ID,
		model.PaymentStatusPaid, model.OrderStatusConfirmed, "charge-1"))

	// A second charge for an already-paid order records the new id only
	require.NoError(t, svc.AttachPaymentID(context.Background(), order.ID, "charge-2"))

	var persisted model.Order
	require.NoError(t, db.First(&persisted, order.ID).Error)
	assert.Equal(t, model.PaymentStatusPaid, persisted.PaymentStatus)
	assert.Equal(t, model.OrderStatusConfirmed, persisted.Status)
	assert.Equal(t, "charge-2", persisted.PaymentID)

	err = svc.AttachPaymentID(context.Background(), 9999, "charge-3")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.As(err).Code)
}
