package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColtenOuO/TurkeyPOS/models"
)

func TestPlaceOrderComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	productA := env.createProduct(t, category.ID, "Turkey Rice", 45.0,
		models.ProductOption{Name: "Extra Meat", PriceDelta: 10.0})
	productB := env.createProduct(t, category.ID, "Braised Egg Bento", 35.0)

	table := "A3"
	w := env.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"table_number": table,
		"items": []map[string]interface{}{
			{"product_id": productA.ID, "quantity": 2, "option_ids": []uint{productA.Options[0].ID}},
			{"product_id": productB.ID, "quantity": 1, "option_ids": []uint{99999}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	decodeBody(t, w, &order)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.OrderTypeDineIn, order.OrderType)
	require.NotNil(t, order.TableNumber)
	assert.Equal(t, "A3", *order.TableNumber)
	require.NotNil(t, order.StoreID)
	assert.Equal(t, store.ID, *order.StoreID)

	require.Len(t, order.Items, 2)
	first, second := order.Items[0], order.Items[1]
	assert.Equal(t, "Turkey Rice", first.ProductName)
	assert.InDelta(t, 55.0, first.UnitPrice, 1e-9)
	assert.Equal(t, 2, first.Quantity)
	require.Len(t, first.SelectedOptions, 1)
	assert.Equal(t, "Extra Meat", first.SelectedOptions[0].OptionName)
	assert.InDelta(t, 10.0, first.SelectedOptions[0].PriceDelta, 1e-9)

	// The unknown option id on the second line is skipped, not rejected.
	assert.Equal(t, "Braised Egg Bento", second.ProductName)
	assert.InDelta(t, 35.0, second.UnitPrice, 1e-9)
	assert.Empty(t, second.SelectedOptions)

	assert.InDelta(t, 145.0, order.TotalPrice, 1e-9)

	// Stored total equals the sum re-derived from persisted lines.
	var items []models.OrderItem
	require.NoError(t, env.db.Where("order_id = ?", order.ID).Find(&items).Error)
	rederived := 0.0
	for _, item := range items {
		rederived += item.UnitPrice * float64(item.Quantity)
	}
	assert.InDelta(t, order.TotalPrice, rederived, 1e-9)
}

func TestPlaceOrderUnknownProductPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)

	w := env.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
			{"product_id": 424242, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	var orders, items, options int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, env.db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, env.db.Model(&models.OrderItemOption{}).Count(&options).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, options)
}

func TestPlaceOrderSoftDeletedProductNotOrderable(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)
	require.NoError(t, env.db.Delete(&product).Error)

	w := env.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	// No items
	w := env.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive quantity
	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)
	w = env.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 0},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No token at all
	w = env.request(t, http.MethodPost, "/api/v1/orders", "", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (e *testEnv) placeOrder(t *testing.T, token string, productID uint) models.Order {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decodeBody(t, w, &order)
	return order
}

func TestListOrdersStoreScopingForced(t *testing.T) {
	env := newTestEnv(t)
	storeA := env.createStore(t, "Downtown", "secret99")
	storeB := env.createStore(t, "Uptown", "secret99")
	tokenA := env.storeToken(t, storeA)
	tokenB := env.storeToken(t, storeB)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)

	orderA := env.placeOrder(t, tokenA, product.ID)
	orderB := env.placeOrder(t, tokenB, product.ID)

	// A store sees only its own orders, even when it asks for another store.
	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders?store_id=%d", storeB.ID), tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decodeBody(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, orderA.ID, orders[0].ID)

	// Admin without a filter sees everything.
	adminToken := env.adminToken(t)
	w = env.request(t, http.MethodGet, "/api/v1/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &orders)
	assert.Len(t, orders, 2)

	// Admin with a filter sees just that store.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders?store_id=%d", storeB.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, orderB.ID, orders[0].ID)

	// Malformed filter is a validation failure.
	w = env.request(t, http.MethodGet, "/api/v1/orders?store_id=abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrdersNewestFirstWithPagination(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 3; i++ {
		order := env.placeOrder(t, token, product.ID)
		require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		ids = append(ids, order.ID)
	}

	w := env.request(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decodeBody(t, w, &orders)
	require.Len(t, orders, 3)
	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{orders[0].ID, orders[1].ID, orders[2].ID})

	w = env.request(t, http.MethodGet, "/api/v1/orders?skip=1&limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, ids[1], orders[0].ID)
}

func TestActiveOrdersPendingOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 3; i++ {
		order := env.placeOrder(t, token, product.ID)
		require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		ids = append(ids, order.ID)
	}

	// Complete the middle order; it must drop out of the kitchen queue.
	w := env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/status", ids[1]), token,
		map[string]string{"status": models.OrderStatusCompleted})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/orders/active", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decodeBody(t, w, &orders)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[0], orders[0].ID)
	assert.Equal(t, ids[2], orders[1].ID)
	for _, order := range orders {
		assert.Equal(t, models.OrderStatusPending, order.Status)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)
	order := env.placeOrder(t, token, product.ID)

	// The target status is stored as given; no enumeration is enforced.
	w := env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/status", order.ID), token,
		map[string]string{"status": "on_the_grill"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Order
	decodeBody(t, w, &updated)
	assert.Equal(t, "on_the_grill", updated.Status)
	assert.Len(t, updated.Items, 1)

	w = env.request(t, http.MethodPatch, "/api/v1/orders/424242/status", token,
		map[string]string{"status": models.OrderStatusCompleted})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPatch, "/api/v1/orders/not-a-number/status", token,
		map[string]string{"status": models.OrderStatusCompleted})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/status", order.ID), token,
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOrderCascades(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0,
		models.ProductOption{Name: "Extra Meat", PriceDelta: 10.0})

	w := env.request(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2, "option_ids": []uint{product.Options[0].ID}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeBody(t, w, &order)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The response carries the deleted order's last known state.
	var deleted models.Order
	decodeBody(t, w, &deleted)
	assert.Equal(t, order.ID, deleted.ID)
	require.Len(t, deleted.Items, 1)
	require.Len(t, deleted.Items[0].SelectedOptions, 1)

	var orders, items, options int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, env.db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, env.db.Model(&models.OrderItemOption{}).Count(&options).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, options)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminOrdersCarryNoStore(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	storeTok := env.storeToken(t, store)
	adminTok := env.adminToken(t)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)

	order := env.placeOrder(t, adminTok, product.ID)
	assert.Nil(t, order.StoreID)

	// Store-scoped callers never see store-less orders.
	w := env.request(t, http.MethodGet, "/api/v1/orders", storeTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decodeBody(t, w, &orders)
	assert.Empty(t, orders)
}

func TestOrderSnapshotSurvivesCatalogEdit(t *testing.T) {
	env := newTestEnv(t)
	store := env.createStore(t, "Downtown", "secret99")
	token := env.storeToken(t, store)
	adminTok := env.adminToken(t)

	category := env.createCategory(t, "Mains", 1)
	product := env.createProduct(t, category.ID, "Turkey Rice", 45.0)
	order := env.placeOrder(t, token, product.ID)

	// Rename the product and raise its price after the fact.
	newName := "Deluxe Turkey Rice"
	newPrice := 60.0
	w := env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", product.ID), adminTok,
		map[string]interface{}{"name": newName, "base_price": newPrice})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	require.NoError(t, env.db.Preload("Items").First(&stored, order.ID).Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Turkey Rice", stored.Items[0].ProductName)
	assert.InDelta(t, 45.0, stored.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 45.0, stored.TotalPrice, 1e-9)
}
