package handler

import (
	"net/http"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCustomers handles retrieving the tenant's customer registry
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID).Order("total_spent DESC")

	// Optional phone search
	if phone := c.QueryParam("phone"); phone != "" {
		query = query.Where("phone LIKE ?", "%"+phone+"%")
	}

	var customers []model.Customer
	if result := query.Find(&customers); result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve customers"})
	}

	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles retrieving a single customer with their order history
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	var customer model.Customer
	result := database.GetDB().Where("tenant_id = ?", tenantID).First(&customer, id)
	if result.Error != nil {
		log.Error("Customer not found", zap.String("customer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	var orders []model.Order
	if result := database.GetDB().
		Preload("Items.Product").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customer.ID).
		Order("id DESC").
		Find(&orders); result.Error != nil {
		log.Error("Failed to load customer orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve customer orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customer": customer,
		"orders":   orders,
	})
}
