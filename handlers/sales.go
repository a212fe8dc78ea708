package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/middleware"
	"github.com/ColtenOuO/TurkeyPOS/models"
	"github.com/ColtenOuO/TurkeyPOS/utils"
)

type salesTotals struct {
	TotalOrders int64   `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

type productSales struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type storeSales struct {
	StoreID     uint    `json:"store_id"`
	StoreName   string  `json:"store_name"`
	TotalOrders int64   `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

// effectiveStoreFilter resolves the caller into the store scope applied to
// sales queries: a store caller is always its own store; an admin may filter by
// any store or none.
func effectiveStoreFilter(c *gin.Context, caller utils.Caller) (*uint, bool) {
	switch caller.Role {
	case utils.RoleStore:
		id := caller.StoreID
		return &id, true
	case utils.RoleAdmin:
		if filter := c.Query("store_id"); filter != "" {
			storeID, err := strconv.ParseUint(filter, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store_id"})
				return nil, false
			}
			id := uint(storeID)
			return &id, true
		}
		return nil, true
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User isn't authorized"})
		return nil, false
	}
}

func applySalesFilters(query *gorm.DB, storeID *uint, startDate, endDate string) *gorm.DB {
	if storeID != nil {
		query = query.Where("orders.store_id = ?", *storeID)
	}
	if startDate != "" {
		query = query.Where("DATE(orders.created_at) >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("DATE(orders.created_at) <= ?", endDate)
	}
	return query
}

// GetSalesStatsHandler returns aggregated totals plus a per-product breakdown,
// scoped like the order lists.
func GetSalesStatsHandler(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User isn't authorized"})
		return
	}

	storeID, ok := effectiveStoreFilter(c, caller)
	if !ok {
		return
	}
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var totals salesTotals
	query := DB.Model(&models.Order{}).
		Select("COUNT(orders.id) AS total_orders, COALESCE(SUM(orders.total_price), 0) AS total_sales")
	if err := applySalesFilters(query, storeID, startDate, endDate).Scan(&totals).Error; err != nil {
		log.Printf("Failed to aggregate sales: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	avgOrderValue := 0.0
	if totals.TotalOrders > 0 {
		avgOrderValue = math.Round(totals.TotalSales/float64(totals.TotalOrders)*100) / 100
	}

	products := []productSales{}
	prodQuery := DB.Model(&models.OrderItem{}).
		Select("order_items.product_name AS name, COALESCE(SUM(order_items.quantity), 0) AS quantity, COALESCE(SUM(order_items.quantity * order_items.unit_price), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id")
	prodQuery = applySalesFilters(prodQuery, storeID, startDate, endDate).
		Group("order_items.product_name").
		Order("quantity DESC")
	if err := prodQuery.Scan(&products).Error; err != nil {
		log.Printf("Failed to aggregate product sales: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period": gin.H{"start": startDate, "end": endDate},
		"stats": gin.H{
			"total_orders":    totals.TotalOrders,
			"total_sales":     totals.TotalSales,
			"avg_order_value": avgOrderValue,
		},
		"products": products,
	})
}

// GetSalesOverviewHandler returns per-store totals. Admin only.
func GetSalesOverviewHandler(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	stores := []storeSales{}
	query := DB.Model(&models.Store{}).
		Select("stores.id AS store_id, stores.name AS store_name, COUNT(orders.id) AS total_orders, COALESCE(SUM(orders.total_price), 0) AS total_sales").
		Joins("LEFT JOIN orders ON orders.store_id = stores.id")
	if startDate != "" {
		query = query.Where("orders.id IS NULL OR DATE(orders.created_at) >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("orders.id IS NULL OR DATE(orders.created_at) <= ?", endDate)
	}
	if err := query.
		Group("stores.id").Group("stores.name").
		Order("total_sales DESC").
		Scan(&stores).Error; err != nil {
		log.Printf("Failed to aggregate store overview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}
