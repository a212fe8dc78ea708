package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/models"
)

// CreateStoreRequest defines the request body (JSON) for creating a store account
type CreateStoreRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=4"`
}

type UpdateStoreRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=4"`
}

// ListStoresHandler is public: the store login screen needs the account list.
func ListStoresHandler(c *gin.Context) {
	var stores []models.Store
	if err := DB.Order("created_at ASC").Find(&stores).Error; err != nil {
		log.Printf("Failed to list stores: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if stores == nil {
		stores = []models.Store{}
	}

	c.JSON(http.StatusOK, stores)
}

func CreateStoreHandler(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Store
	queryResult := DB.Where("name = ?", req.Name).First(&existing)
	if queryResult.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Store with this name already exists"})
		return
	}
	if !errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": queryResult.Error.Error()})
		return
	}

	store := models.Store{Name: req.Name, IsActive: true}
	if err := store.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := DB.Create(&store).Error; err != nil {
		log.Printf("Failed to create store %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}

	c.JSON(http.StatusCreated, store)
}

func UpdateStoreHandler(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var store models.Store
	if err := DB.First(&store, uint(storeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		if err := store.SetPassword(*req.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		updates["password_hash"] = store.PasswordHash
	}

	if len(updates) > 0 {
		if err := DB.Model(&store).Updates(updates).Error; err != nil {
			log.Printf("Failed to update store %d: %v", storeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, store)
}

func ResetStorePasswordHandler(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var store models.Store
	if err := DB.First(&store, uint(storeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := store.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := DB.Model(&store).Update("password_hash", store.PasswordHash).Error; err != nil {
		log.Printf("Failed to reset password for store %d: %v", storeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteStoreHandler removes a store account. Its orders are kept for the
// financial record: their store reference is nulled, not cascaded.
func DeleteStoreHandler(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var store models.Store
	if err := DB.First(&store, uint(storeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("store_id = ?", store.ID).Update("store_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&store).Error
	})
	if err != nil {
		log.Printf("Failed to delete store %d: %v", storeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Store deleted"})
}
