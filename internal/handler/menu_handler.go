package handler

import (
	"net/http"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MenuCategory is one storefront menu section with its available products
type MenuCategory struct {
	model.Category
	Products []model.Product `json:"products"`
}

// GetMenu returns the public menu for the resolved tenant: active categories
// in display order, each with its currently available products
func GetMenu(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := tenantFromRequest(c)
	if tenant == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	var categories []model.Category
	result := database.GetDB().
		Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("display_order ASC, id ASC").
		Find(&categories)
	if result.Error != nil {
		log.Error("Failed to load menu categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve menu"})
	}

	var products []model.Product
	result = database.GetDB().
		Where("tenant_id = ? AND available = ?", tenant.ID, true).
		Order("name ASC").
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to load menu products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve menu"})
	}

	byCategory := make(map[uint][]model.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	menu := make([]MenuCategory, 0, len(categories))
	for _, cat := range categories {
		section := MenuCategory{Category: cat, Products: byCategory[cat.ID]}
		if section.Products == nil {
			section.Products = []model.Product{}
		}
		menu = append(menu, section)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tenant": echo.Map{
			"slug":    tenant.Slug,
			"name":    tenant.Name,
			"is_open": tenant.IsOpen,
		},
		"menu": menu,
	})
}
