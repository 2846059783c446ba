package middleware

import (
	"net/http"
	"strings"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantContextKey is the echo context key holding the resolved *model.Tenant
const TenantContextKey = "tenant"

// SlugFromHost extracts the first subdomain label from a request host.
// Returns "" unless the host (port stripped) has at least three dot-separated
// labels, e.g. "pizzaria.cardapio.app" -> "pizzaria".
func SlugFromHost(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 || labels[0] == "" {
		return ""
	}
	return labels[0]
}

// resolveSlug determines the tenant slug for a request, in priority order:
// explicit header, path parameter, query parameter, subdomain.
func resolveSlug(c echo.Context) string {
	if slug := c.Request().Header.Get("X-Tenant-Slug"); slug != "" {
		return slug
	}
	if slug := c.Param("tenantSlug"); slug != "" {
		return slug
	}
	if slug := c.QueryParam("tenant"); slug != "" {
		return slug
	}
	return SlugFromHost(c.Request().Host)
}

// ResolveTenant resolves the tenant for a storefront request and attaches it
// to the request context. Unknown tenants fail with 404, tenants that are
// neither ACTIVE nor TRIAL fail with 403.
func ResolveTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		slug := resolveSlug(c)
		if slug == "" {
			log.Warn("Could not determine tenant for request", zap.String("host", c.Request().Host))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}

		var tenant model.Tenant
		result := database.GetDB().Where("slug = ?", slug).First(&tenant)
		if result.Error != nil {
			log.Warn("Tenant not found", zap.String("slug", slug))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}

		if !tenant.Accepting() {
			log.Warn("Tenant is not active",
				zap.String("slug", slug),
				zap.String("status", tenant.Status))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant is not active"})
		}

		c.Set(TenantContextKey, &tenant)
		return next(c)
	}
}

// TenantFromContext returns the tenant attached by ResolveTenant, or nil
func TenantFromContext(c echo.Context) *model.Tenant {
	if t, ok := c.Get(TenantContextKey).(*model.Tenant); ok {
		return t
	}
	return nil
}
