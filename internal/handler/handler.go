package handler

import (
	"net/http"

	"cardapio-api/internal/apperror"
	appmw "cardapio-api/internal/middleware"
	"cardapio-api/internal/model"
	"cardapio-api/internal/payment"
	"cardapio-api/internal/service"
	"cardapio-api/pkg/config"
	"cardapio-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	orders *service.OrderService
	pix    *payment.PixService
)

// Init wires the handler package to the database-backed services
func Init(db *gorm.DB, cfg *config.Config) {
	orders = service.NewOrderService(db)
	pix = payment.NewPixService(&cfg.Pix)
}

// RenderError translates an application error into the HTTP response.
// Unexpected errors are logged server-side and surfaced as a generic message.
func RenderError(c echo.Context, err error) error {
	appErr := apperror.As(err)

	if appErr.Code == apperror.CodeInternal || appErr.Code == apperror.CodeProvider {
		logger.FromContext(c).Error("Request failed",
			zap.String("code", appErr.Code),
			zap.Error(err))
	}

	body := echo.Map{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["details"] = appErr.Fields
	}
	return c.JSON(appErr.Status, body)
}

// tenantFromRequest returns the tenant resolved for a storefront request
func tenantFromRequest(c echo.Context) *model.Tenant {
	return appmw.TenantFromContext(c)
}

// tenantIDFromClaims returns the tenant id stored by the auth middleware
func tenantIDFromClaims(c echo.Context) (uint, bool) {
	id, ok := c.Get("tenant_id").(uint)
	return id, ok
}

// unauthorized is the shared response for requests missing tenant identity
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}
