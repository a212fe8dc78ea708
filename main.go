package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/config"
	"github.com/ColtenOuO/TurkeyPOS/handlers"
	"github.com/ColtenOuO/TurkeyPOS/middleware"
	"github.com/ColtenOuO/TurkeyPOS/models"
	"github.com/ColtenOuO/TurkeyPOS/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file. Using environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Store{},
		&models.Category{},
		&models.Product{},
		&models.ProductOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	handlers.DB = db

	tokens := utils.NewTokenService(cfg.JWTSecret)
	router := setupRouter(cfg, db, tokens)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Shutdown complete")
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	dbURI := cfg.DatabaseURI
	if dbURI == "" {
		dbURI = "pos.db"
		log.Println("Warning: DATABASE_URI not found in environment variables. Using default: " + dbURI)
	}

	if strings.HasPrefix(dbURI, "postgres://") || strings.HasPrefix(dbURI, "postgresql://") {
		return gorm.Open(postgres.Open(dbURI), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dbURI), &gorm.Config{})
}

func setupRouter(cfg config.Config, db *gorm.DB, tokens *utils.TokenService) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	var corsConfig cors.Config
	if cfg.Env == "production" {
		corsConfig = cors.Config{
			AllowOrigins:     []string{"https://pos.example.com"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
	} else {
		corsConfig = cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})

	authHandler := handlers.NewAuthHandler(cfg, tokens)

	v1 := router.Group("/api/v1", middleware.RateLimit())
	{
		v1.POST("/login/access-token", authHandler.AdminLogin)
		v1.POST("/login/store", authHandler.StoreLogin)

		v1.GET("/menu", handlers.GetMenuHandler)
		v1.GET("/stores", handlers.ListStoresHandler)
	}

	authed := v1.Group("", middleware.RequireAuth(tokens, db))
	{
		orderRoutes := authed.Group("/orders")
		{
			orderRoutes.POST("", handlers.PlaceOrderHandler)
			orderRoutes.GET("", handlers.GetOrdersHandler)
			orderRoutes.GET("/active", handlers.GetActiveOrdersHandler)
			orderRoutes.PATCH("/:order_id/status", handlers.UpdateOrderStatusHandler)
			orderRoutes.DELETE("/:order_id", handlers.DeleteOrderHandler)
		}

		salesRoutes := authed.Group("/sales")
		{
			salesRoutes.GET("/stats", handlers.GetSalesStatsHandler)
			salesRoutes.GET("/overview", middleware.RequireAdmin(), handlers.GetSalesOverviewHandler)
		}
	}

	admin := authed.Group("", middleware.RequireAdmin())
	{
		storeRoutes := admin.Group("/stores")
		{
			storeRoutes.POST("", handlers.CreateStoreHandler)
			storeRoutes.PATCH("/:store_id", handlers.UpdateStoreHandler)
			storeRoutes.PUT("/:store_id/reset-password", handlers.ResetStorePasswordHandler)
			storeRoutes.DELETE("/:store_id", handlers.DeleteStoreHandler)
		}

		categoryRoutes := admin.Group("/categories")
		{
			categoryRoutes.POST("", handlers.CreateCategoryHandler)
			categoryRoutes.PATCH("/:category_id", handlers.UpdateCategoryHandler)
			categoryRoutes.DELETE("/:category_id", handlers.DeleteCategoryHandler)
			categoryRoutes.POST("/:category_id/restore", handlers.RestoreCategoryHandler)
		}

		productRoutes := admin.Group("/products")
		{
			productRoutes.POST("", handlers.CreateProductHandler)
			productRoutes.PATCH("/:product_id", handlers.UpdateProductHandler)
			productRoutes.DELETE("/:product_id", handlers.DeleteProductHandler)
			productRoutes.POST("/:product_id/restore", handlers.RestoreProductHandler)
		}
	}

	return router
}
