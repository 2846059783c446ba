package handler

import (
	"net/http"
	"strconv"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/database"
	"cardapio-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	CategoryID  uint             `json:"category_id"`
	Available   bool             `json:"available"`
	Stock       *int             `json:"stock,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Nutrition   *model.Nutrition `json:"nutrition,omitempty"`
}

// ListProducts handles retrieving the tenant's products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID)

	// Filter by availability if specified
	available := c.QueryParam("available")
	if available != "" {
		if v, err := strconv.ParseBool(available); err == nil {
			query = query.Where("available = ?", v)
		} else {
			log.Warn("Invalid available parameter", zap.String("value", available), zap.Error(err))
		}
	}

	// Filter by category if specified
	categoryID := c.QueryParam("category_id")
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []model.Product
	result := query.Order("name ASC").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().Where("tenant_id = ?", tenantID).First(&product, id)
	if result.Error != nil {
		log.Error("Product not found", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	// The category must belong to the same tenant
	if req.CategoryID != 0 {
		var count int64
		database.GetDB().Model(&model.Category{}).
			Where("tenant_id = ? AND id = ?", tenantID, req.CategoryID).
			Count(&count)
		if count == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
		}
	}

	slug := slugify(req.Name)
	var count int64
	database.GetDB().Model(&model.Product{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		Count(&count)
	if count > 0 {
		log.Warn("Product with this slug already exists", zap.String("slug", slug))
		return c.JSON(http.StatusConflict, echo.Map{"error": "product with this name already exists"})
	}

	product := model.Product{
		TenantID:    tenantID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if req.Nutrition != nil {
		nutrition := datatypes.NewJSONType(*req.Nutrition)
		product.Nutrition = &nutrition
	}

	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("price", product.Price.StringFixed(2)))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	var product model.Product
	result := database.GetDB().Where("tenant_id = ?", tenantID).First(&product, id)
	if result.Error != nil {
		log.Error("Product not found for update", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	// The target category must belong to the same tenant
	if req.CategoryID != 0 && req.CategoryID != product.CategoryID {
		var count int64
		database.GetDB().Model(&model.Category{}).
			Where("tenant_id = ? AND id = ?", tenantID, req.CategoryID).
			Count(&count)
		if count == 0 {
			log.Warn("Rejected product move to foreign category",
				zap.String("product_id", id),
				zap.Uint("category_id", req.CategoryID))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
		}
	}

	oldPrice := product.Price

	if req.Name != "" && req.Name != product.Name {
		newSlug := slugify(req.Name)
		if newSlug != product.Slug {
			var count int64
			database.GetDB().Model(&model.Product{}).
				Where("tenant_id = ? AND slug = ? AND id != ?", tenantID, newSlug, product.ID).
				Count(&count)
			if count > 0 {
				return c.JSON(http.StatusConflict, echo.Map{"error": "product with this name already exists"})
			}
			product.Slug = newSlug
		}
		product.Name = req.Name
	}
	product.Description = req.Description
	product.Price = req.Price
	product.CategoryID = req.CategoryID
	product.Available = req.Available
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	if req.Nutrition != nil {
		nutrition := datatypes.NewJSONType(*req.Nutrition)
		product.Nutrition = &nutrition
	}

	if result := database.GetDB().Save(&product); result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}

	// Existing order items keep their snapshotted unit price; only future
	// orders see the new price
	log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.String("old_price", oldPrice.StringFixed(2)),
		zap.String("new_price", product.Price.StringFixed(2)))
	return c.JSON(http.StatusOK, product)
}

// UpdateProductAvailability toggles a product's availability flag
func UpdateProductAvailability(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	var req struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	result := database.GetDB().Model(&model.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("available", req.Available)
	if result.Error != nil {
		log.Error("Failed to update availability", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	log.Info("Product availability updated",
		zap.String("product_id", id),
		zap.Bool("available", req.Available))
	return c.JSON(http.StatusOK, echo.Map{"message": "product updated successfully"})
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := tenantIDFromClaims(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Param("id")

	result := database.GetDB().Where("tenant_id = ?", tenantID).Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	log.Info("Product deleted", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}
