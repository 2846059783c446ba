package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/config"
	"cardapio-api/pkg/database"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

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

	database.SetDB(db)
	t.Cleanup(func() { database.SetDB(nil) })
	Init(db, &config.Config{})
	return db
}

func adminJSONRequest(method, target, body string, tenantID uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("tenant_id", tenantID)
	return c, rec
}

func TestUpdateProductRejectsForeignCategory(t *testing.T) {
	db := setupHandlerDB(t)

	mine := model.Tenant{Slug: "pizzaria", Name: "Pizzaria", Status: model.TenantStatusActive}
	require.NoError(t, db.Create(&mine).Error)
	theirs := model.Tenant{Slug: "hamburgueria", Name: "Burger House", Status: model.TenantStatusActive}
	require.NoError(t, db.Create(&theirs).Error)

	myCategory := model.Category{TenantID: mine.ID, Name: "Pizzas", Slug: "pizzas", Active: true}
	require.NoError(t, db.Create(&myCategory).Error)
	theirCategory := model.Category{TenantID: theirs.ID, Name: "Burgers", Slug: "burgers", Active: true}
	require.NoError(t, db.Create(&theirCategory).Error)

	product := model.Product{
		TenantID:   mine.ID,
		CategoryID: myCategory.ID,
		Name:       "Margherita",
		Slug:       "margherita",
		Price:      decimal.RequireFromString("30.00"),
		Available:  true,
	}
	require.NoError(t, db.Create(&product).Error)

	body := fmt.Sprintf(`{"name":"Margherita","price":"30.00","category_id":%d,"available":true}`, theirCategory.ID)
	c, rec := adminJSONRequest(http.MethodPut, "/api/products/"+strconv.Itoa(int(product.ID)), body, mine.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(product.ID)))

	require.NoError(t, UpdateProduct(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The product stays in its own category
	var persisted model.Product
	require.NoError(t, db.First(&persisted, product.ID).Error)
	assert.Equal(t, myCategory.ID, persisted.CategoryID)
}

func TestUpdateProductMovesWithinOwnCategories(t *testing.T) {
	db := setupHandlerDB(t)

	tenant := model.Tenant{Slug: "pizzaria", Name: "Pizzaria", Status: model.TenantStatusActive}
	require.NoError(t, db.Create(&tenant).Error)

	pizzas := model.Category{TenantID: tenant.ID, Name: "Pizzas", Slug: "pizzas", Active: true}
	require.NoError(t, db.Create(&pizzas).Error)
	sweets := model.Category{TenantID: tenant.ID, Name: "Doces", Slug: "doces", Active: true}
	require.NoError(t, db.Create(&sweets).Error)

	product := model.Product{
		TenantID:   tenant.ID,
		CategoryID: pizzas.ID,
		Name:       "Pizza de Chocolate",
		Slug:       "pizza-de-chocolate",
		Price:      decimal.RequireFromString("28.00"),
		Available:  true,
	}
	require.NoError(t, db.Create(&product).Error)

	body := fmt.Sprintf(`{"name":"Pizza de Chocolate","price":"28.00","category_id":%d,"available":true}`, sweets.ID)
	c, rec := adminJSONRequest(http.MethodPut, "/api/products/"+strconv.Itoa(int(product.ID)), body, tenant.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(product.ID)))

	require.NoError(t, UpdateProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var persisted model.Product
	require.NoError(t, db.First(&persisted, product.ID).Error)
	assert.Equal(t, sweets.ID, persisted.CategoryID)
}

func TestUpdateProductUnknownCategory(t *testing.T) {
	db := setupHandlerDB(t)

	tenant := model.Tenant{Slug: "pizzaria", Name: "Pizzaria", Status: model.TenantStatusActive}
	require.NoError(t, db.Create(&tenant).Error)

	product := model.Product{
		TenantID:  tenant.ID,
		Name:      "Margherita",
		Slug:      "margherita",
		Price:     decimal.RequireFromString("30.00"),
		Available: true,
	}
	require.NoError(t, db.Create(&product).Error)

	body := `{"name":"Margherita","price":"30.00","category_id":424242,"available":true}`
	c, rec := adminJSONRequest(http.MethodPut, "/api/products/"+strconv.Itoa(int(product.ID)), body, tenant.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(product.ID)))

	require.NoError(t, UpdateProduct(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
