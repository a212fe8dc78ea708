package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/config"
	"github.com/ColtenOuO/TurkeyPOS/handlers"
	"github.com/ColtenOuO/TurkeyPOS/middleware"
	"github.com/ColtenOuO/TurkeyPOS/models"
	"github.com/ColtenOuO/TurkeyPOS/utils"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.TokenService
	cfg    config.Config
}

// newTestEnv wires the real router against an in-memory database, so tests
// exercise auth, scoping, and persistence exactly as a live request would.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Store{},
		&models.Category{},
		&models.Product{},
		&models.ProductOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
	))
	handlers.DB = db

	cfg := config.Config{JWTSecret: "test-secret", AdminPassword: "hunter2", Port: "0", Env: "test"}
	tokens := utils.NewTokenService(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(cfg, tokens)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/login/access-token", authHandler.AdminLogin)
	v1.POST("/login/store", authHandler.StoreLogin)
	v1.GET("/menu", handlers.GetMenuHandler)
	v1.GET("/stores", handlers.ListStoresHandler)

	authed := v1.Group("", middleware.RequireAuth(tokens, db))
	orderRoutes := authed.Group("/orders")
	orderRoutes.POST("", handlers.PlaceOrderHandler)
	orderRoutes.GET("", handlers.GetOrdersHandler)
	orderRoutes.GET("/active", handlers.GetActiveOrdersHandler)
	orderRoutes.PATCH("/:order_id/status", handlers.UpdateOrderStatusHandler)
	orderRoutes.DELETE("/:order_id", handlers.DeleteOrderHandler)

	salesRoutes := authed.Group("/sales")
	salesRoutes.GET("/stats", handlers.GetSalesStatsHandler)
	salesRoutes.GET("/overview", middleware.RequireAdmin(), handlers.GetSalesOverviewHandler)

	admin := authed.Group("", middleware.RequireAdmin())
	storeRoutes := admin.Group("/stores")
	storeRoutes.POST("", handlers.CreateStoreHandler)
	storeRoutes.PATCH("/:store_id", handlers.UpdateStoreHandler)
	storeRoutes.PUT("/:store_id/reset-password", handlers.ResetStorePasswordHandler)
	storeRoutes.DELETE("/:store_id", handlers.DeleteStoreHandler)

	categoryRoutes := admin.Group("/categories")
	categoryRoutes.POST("", handlers.CreateCategoryHandler)
	categoryRoutes.PATCH("/:category_id", handlers.UpdateCategoryHandler)
	categoryRoutes.DELETE("/:category_id", handlers.DeleteCategoryHandler)
	categoryRoutes.POST("/:category_id/restore", handlers.RestoreCategoryHandler)

	productRoutes := admin.Group("/products")
	productRoutes.POST("", handlers.CreateProductHandler)
	productRoutes.PATCH("/:product_id", handlers.UpdateProductHandler)
	productRoutes.DELETE("/:product_id", handlers.DeleteProductHandler)
	productRoutes.POST("/:product_id/restore", handlers.RestoreProductHandler)

	return &testEnv{db: db, router: router, tokens: tokens, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.GenerateAdminToken()
	require.NoError(t, err)
	return token
}

func (e *testEnv) storeToken(t *testing.T, store models.Store) string {
	t.Helper()
	token, err := e.tokens.GenerateStoreToken(store.ID, store.Name)
	require.NoError(t, err)
	return token
}

func (e *testEnv) createStore(t *testing.T, name, password string) models.Store {
	t.Helper()
	store := models.Store{Name: name, IsActive: true}
	require.NoError(t, store.SetPassword(password))
	require.NoError(t, e.db.Create(&store).Error)
	return store
}

func (e *testEnv) createCategory(t *testing.T, name string, sortOrder int) models.Category {
	t.Helper()
	category := models.Category{Name: name, SortOrder: sortOrder}
	require.NoError(t, e.db.Create(&category).Error)
	return category
}

func (e *testEnv) createProduct(t *testing.T, categoryID uint, name string, basePrice float64, options ...models.ProductOption) models.Product {
	t.Helper()
	product := models.Product{CategoryID: categoryID, Name: name, BasePrice: basePrice, Options: options}
	require.NoError(t, e.db.Create(&product).Error)
	return product
}
