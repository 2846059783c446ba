package handler

import (
	"net/http"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// ListCategories handles retrieving the tenant's categories in display order
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	var categories []model.Category
	result := database.GetDB().
		Where("tenant_id = ?", tenantID).
		Order("display_order ASC, id ASC").
		Find(&categories)
	if result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles retrieving a single category by ID
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	var category model.Category
	result := database.GetDB().Where("tenant_id = ?", tenantID).First(&category, id)
	if result.Error != nil {
		log.Error("Category not found", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles creating a new category
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	slug := slugify(req.Name)

	// Slug must be unique within the tenant
	var count int64
	database.GetDB().Model(&model.Category{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		Count(&count)
	if count > 0 {
		log.Warn("Category with this slug already exists", zap.String("slug", slug))
		return c.JSON(http.StatusConflict, echo.Map{"error": "category with this name already exists"})
	}

	category := model.Category{
		TenantID:     tenantID,
		Name:         req.Name,
		Slug:         slug,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active,
	}

	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}

	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name),
		zap.String("slug", category.Slug))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles updating an existing category
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("category_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var category model.Category
	result := database.GetDB().Where("tenant_id = ?", tenantID).First(&category, id)
	if result.Error != nil {
		log.Error("Category not found for update", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	if req.Name != "" && req.Name != category.Name {
		newSlug := slugify(req.Name)
		if newSlug != category.Slug {
			var count int64
			database.GetDB().Model(&model.Category{}).
				Where("tenant_id = ? AND slug = ? AND id != ?", tenantID, newSlug, category.ID).
				Count(&count)
			if count > 0 {
				return c.JSON(http.StatusConflict, echo.Map{"error": "category with this name already exists"})
			}
			category.Slug = newSlug
		}
		category.Name = req.Name
	}
	category.Description = req.Description
	category.DisplayOrder = req.DisplayOrder
	category.Active = req.Active

	if result := database.GetDB().Save(&category); result.Error != nil {
		log.Error("Failed to update category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update category"})
	}

	log.Info("Category updated", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category (soft delete)
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	result := database.GetDB().Where("tenant_id = ?", tenantID).Delete(&model.Category{}, id)
	if result.Error != nil {
		log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete category"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	log.Info("Category deleted", zap.String("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}
