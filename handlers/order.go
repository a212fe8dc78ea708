package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/middleware"
	"github.com/ColtenOuO/TurkeyPOS/models"
	"github.com/ColtenOuO/TurkeyPOS/pricing"
	"github.com/ColtenOuO/TurkeyPOS/utils"
)

// OrderItemRequest is part of PlaceOrderRequest
type OrderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	OptionIDs []uint `json:"option_ids"`
}

// PlaceOrderRequest defines the request body (JSON) for placing an order
type PlaceOrderRequest struct {
	TableNumber *string            `json:"table_number"`
	OrderType   string             `json:"order_type"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1"`
}

// UpdateOrderStatusRequest defines the request body for updating an order status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PlaceOrderHandler creates an order with all its items and option snapshots in
// one transaction. Any unresolvable product aborts the whole creation.
func PlaceOrderHandler(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User isn't authorized"})
		return
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}

	order := models.Order{
		TableNumber: req.TableNumber,
		OrderType:   orderType,
		Status:      models.OrderStatusPending,
		StoreID:     caller.OrderStoreID(),
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		lines := make([]pricing.Line, 0, len(req.Items))
		for _, item := range req.Items {
			line, err := pricing.PriceLine(tx, item.ProductID, item.Quantity, item.OptionIDs)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		for _, line := range lines {
			orderItem := models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			}
			for _, opt := range line.Options {
				orderItem.SelectedOptions = append(orderItem.SelectedOptions, models.OrderItemOption{
					OptionName: opt.Name,
					PriceDelta: opt.PriceDelta,
				})
			}
			order.Items = append(order.Items, orderItem)
		}
		order.TotalPrice = pricing.OrderTotal(lines)

		return tx.Create(&order).Error
	})

	if err != nil {
		if errors.Is(err, pricing.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("Failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var created models.Order
	if err := DB.Preload("Items.SelectedOptions").First(&created, order.ID).Error; err != nil {
		c.JSON(http.StatusCreated, order)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// scopedOrderQuery applies the caller's visibility to an order query. A store
// caller is always pinned to its own store, whatever filter it supplied; an
// admin's filter is honored verbatim, absent meaning all stores.
func scopedOrderQuery(c *gin.Context, caller utils.Caller) (*gorm.DB, bool) {
	query := DB.Model(&models.Order{})

	switch caller.Role {
	case utils.RoleStore:
		query = query.Where("store_id = ?", caller.StoreID)
	case utils.RoleAdmin:
		if filter := c.Query("store_id"); filter != "" {
			storeID, err := strconv.ParseUint(filter, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store_id"})
				return nil, false
			}
			query = query.Where("store_id = ?", uint(storeID))
		}
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User isn't authorized"})
		return nil, false
	}

	return query, true
}

// GetOrdersHandler lists orders newest-first, paginated, scoped to the caller.
func GetOrdersHandler(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User isn't authorized"})
		return
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skip"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	query, ok := scopedOrderQuery(c, caller)
	if !ok {
		return
	}

	var orders []models.Order
	if err := query.
		Preload("Items.SelectedOptions").
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&orders).Error; err != nil {
		log.Printf("Failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// GetActiveOrdersHandler lists pending orders oldest-first: the kitchen works
// the queue in arrival order, unlike the newest-first archive view.
func GetActiveOrdersHandler(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User isn't authorized"})
		return
	}

	query, ok := scopedOrderQuery(c, caller)
	if !ok {
		return
	}

	var orders []models.Order
	if err := query.
		Where("status = ?", models.OrderStatusPending).
		Preload("Items.SelectedOptions").
		Order("created_at ASC").Order("id ASC").
		Find(&orders).Error; err != nil {
		log.Printf("Failed to list active orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatusHandler sets an order's status by id. The lookup is by id
// only, and the target status is stored as given.
func UpdateOrderStatusHandler(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := DB.First(&order, uint(orderID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to get order %d: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := DB.Model(&order).Update("status", req.Status).Error; err != nil {
		log.Printf("Failed to update order %d: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var updated models.Order
	if err := DB.Preload("Items.SelectedOptions").First(&updated, order.ID).Error; err != nil {
		c.JSON(http.StatusOK, order)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteOrderHandler removes an order and, through ownership, all of its items
// and option snapshots. The last known state is returned for confirmation.
func DeleteOrderHandler(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var order models.Order
	if err := DB.Preload("Items.SelectedOptions").First(&order, uint(orderID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to get order %d: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&models.OrderItem{}).Select("id").Where("order_id = ?", order.ID)
		if err := tx.Where("order_item_id IN (?)", itemIDs).Delete(&models.OrderItemOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
	if err != nil {
		log.Printf("Failed to delete order %d: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}
