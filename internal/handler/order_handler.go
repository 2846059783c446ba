package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"cardapio-api/internal/apperror"
	"cardapio-api/internal/service"
	"cardapio-api/pkg/logger"
	"cardapio-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateOrder handles storefront checkout for the resolved tenant
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := tenantFromRequest(c)
	if tenant == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	var req service.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order request", zap.Error(err))
		prometheus.RecordOrderError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	order, err := orders.Create(c.Request().Context(), tenant.ID, &req)
	if err != nil {
		appErr := apperror.As(err)
		switch appErr.Code {
		case apperror.CodeValidation:
			prometheus.RecordOrderError("validation")
		case apperror.CodeProductUnavailable:
			prometheus.RecordOrderError("product_unavailable")
		default:
			prometheus.RecordOrderError("db_error")
		}
		log.Warn("Order creation failed",
			zap.String("tenant", tenant.Slug),
			zap.String("code", appErr.Code))
		return RenderError(c, err)
	}

	prometheus.OrderCreatedCounter.WithLabelValues(tenant.Slug).Inc()
	log.Info("Order created",
		zap.String("tenant", tenant.Slug),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("items", len(order.Items)))

	return c.JSON(http.StatusCreated, order)
}

// ListCustomerOrders returns a customer's orders by phone (public storefront
// order tracking)
func ListCustomerOrders(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := tenantFromRequest(c)
	if tenant == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}

	list, err := orders.ListByPhone(c.Request().Context(), tenant.ID, phone)
	if err != nil {
		log.Error("Failed to list customer orders", zap.Error(err))
		return RenderError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// ListOrders handles the admin order list, optionally filtered by status
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	status := strings.ToUpper(c.QueryParam("status"))
	list, err := orders.List(c.Request().Context(), tenantID, status)
	if err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return RenderError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetOrder handles retrieving a single order by ID
func GetOrder(c echo.Context) error {
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	order, err := orders.Get(c.Request().Context(), tenantID, uint(id))
	if err != nil {
		return RenderError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus transitions an order through its lifecycle
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	next := strings.ToUpper(strings.TrimSpace(req.Status))

	order, err := orders.UpdateStatus(c.Request().Context(), tenantID, uint(id), next)
	if err != nil {
		return RenderError(c, err)
	}

	log.Info("Order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

// CancelOrder forces an order to CANCELLED
func CancelOrder(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	order, err := orders.Cancel(c.Request().Context(), tenantID, uint(id))
	if err != nil {
		return RenderError(c, err)
	}

	log.Info("Order cancelled",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return c.JSON(http.StatusOK, order)
}
