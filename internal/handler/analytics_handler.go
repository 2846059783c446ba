package handler

import (
	"net/http"
	"time"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"
	"cardapio-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type topProduct struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// AnalyticsSummary aggregates orders and revenue for the dashboard
func AnalyticsSummary(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	// Default window: last 30 days
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.QueryParam("from"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			from = parsed
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			// Include the whole end day
			to = parsed.AddDate(0, 0, 1)
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	db := database.GetDB()

	var totalOrders int64
	if err := db.Model(&model.Order{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to).
		Count(&totalOrders).Error; err != nil {
		log.Error("Failed to count orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute analytics"})
	}

	// Cancelled orders are excluded from revenue
	var revenue decimal.NullDecimal
	if err := db.Model(&model.Order{}).
		Select("SUM(total)").
		Where("tenant_id = ? AND status != ? AND created_at >= ? AND created_at < ?",
			tenantID, model.OrderStatusCancelled, from, to).
		Scan(&revenue).Error; err != nil {
		log.Error("Failed to sum revenue", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute analytics"})
	}

	byStatus := map[string]int64{}
	rows := []struct {
		Status string
		Count  int64
	}{}
	if err := db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to).
		Group("status").
		Scan(&rows).Error; err != nil {
		log.Error("Failed to group orders by status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute analytics"})
	}
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}

	var top []topProduct
	if err := db.Model(&model.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.quantity) as quantity, SUM(order_items.subtotal) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.tenant_id = ? AND orders.status != ? AND orders.created_at >= ? AND orders.created_at < ?",
			tenantID, model.OrderStatusCancelled, from, to).
		Group("order_items.product_id, products.name").
		Order("quantity DESC").
		Limit(10).
		Scan(&top).Error; err != nil {
		log.Error("Failed to compute top products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute analytics"})
	}

	total := decimal.Zero
	if revenue.Valid {
		total = revenue.Decimal
	}

	return c.JSON(http.StatusOK, echo.Map{
		"from":             from.Format("2006-01-02"),
		"to":               to.Format("2006-01-02"),
		"total_orders":     totalOrders,
		"revenue":          total,
		"orders_by_status": byStatus,
		"top_products":     top,
	})
}
