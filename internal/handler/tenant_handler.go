package handler

import (
	"net/http"
	"time"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"
	"cardapio-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// GetConfig returns the authenticated tenant's storefront configuration
func GetConfig(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenant model.Tenant
	if result := database.GetDB().Preload("Plan").First(&tenant, tenantID); result.Error != nil {
		log.Error("Tenant not found", zap.Uint("tenant_id", tenantID), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	return c.JSON(http.StatusOK, tenant)
}

// ConfigRequest carries the mutable tenant settings. The slug is immutable
// once issued and deliberately absent here.
type ConfigRequest struct {
	Name           *string         `json:"name,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	WhatsApp       *string         `json:"whatsapp,omitempty"`
	Email          *string         `json:"email,omitempty"`
	LogoURL        *string         `json:"logo_url,omitempty"`
	PrimaryColor   *string         `json:"primary_color,omitempty"`
	SecondaryColor *string         `json:"secondary_color,omitempty"`
	Schedule       *model.Schedule `json:"schedule,omitempty"`
	IsOpen         *bool           `json:"is_open,omitempty"`
}

// UpdateConfig applies a partial update to the tenant's settings
func UpdateConfig(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	var req ConfigRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, tenantID); result.Error != nil {
		log.Error("Tenant not found", zap.Uint("tenant_id", tenantID), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.WhatsApp != nil {
		updates["whats_app"] = *req.WhatsApp
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.PrimaryColor != nil {
		updates["primary_color"] = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		updates["secondary_color"] = *req.SecondaryColor
	}
	if req.Schedule != nil {
		updates["schedule"] = datatypes.NewJSONType(*req.Schedule)
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}

	if len(updates) == 0 {
		return c.JSON(http.StatusOK, tenant)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(&tenant).Updates(updates); result.Error != nil {
		log.Error("Failed to update tenant config",
			zap.Uint("tenant_id", tenantID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update config"})
	}

	log.Info("Tenant config updated",
		zap.Uint("tenant_id", tenantID),
		zap.Int("fields", len(updates)))
	return c.JSON(http.StatusOK, tenant)
}

// GetStorefront returns the public tenant profile for the storefront shell
func GetStorefront(c echo.Context) error {
	tenant := tenantFromRequest(c)
	if tenant == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	// Public view: no plan or contact email exposure
	return c.JSON(http.StatusOK, echo.Map{
		"slug":            tenant.Slug,
		"name":            tenant.Name,
		"phone":           tenant.Phone,
		"whatsapp":        tenant.WhatsApp,
		"logo_url":        tenant.LogoURL,
		"primary_color":   tenant.PrimaryColor,
		"secondary_color": tenant.SecondaryColor,
		"schedule":        tenant.Schedule,
		"is_open":         tenant.IsOpen,
	})
}
