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

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

type ProductOptionRequest struct {
	Name       string  `json:"name" binding:"required"`
	PriceDelta float64 `json:"price_delta"`
	IsRequired bool    `json:"is_required"`
	SortOrder  int     `json:"sort_order"`
}

type CreateProductRequest struct {
	CategoryID uint                   `json:"category_id" binding:"required"`
	Name       string                 `json:"name" binding:"required"`
	BasePrice  float64                `json:"base_price" binding:"required,gt=0"`
	SortOrder  int                    `json:"sort_order"`
	Options    []ProductOptionRequest `json:"options"`
}

type UpdateProductRequest struct {
	Name      *string                 `json:"name"`
	BasePrice *float64                `json:"base_price"`
	SortOrder *int                    `json:"sort_order"`
	Options   *[]ProductOptionRequest `json:"options"`
}

// GetMenuHandler returns the full menu: categories with their products and
// options, in display order. Soft-deleted rows are filtered out by the default
// query scope.
func GetMenuHandler(c *gin.Context) {
	var categories []models.Category
	if err := DB.
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Products.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&categories).Error; err != nil {
		log.Printf("Failed to get menu: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, categories)
}

func CreateCategoryHandler(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name, SortOrder: req.SortOrder}
	if err := DB.Create(&category).Error; err != nil {
		log.Printf("Failed to create category %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func UpdateCategoryHandler(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := DB.First(&category, uint(categoryID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) > 0 {
		if err := DB.Model(&category).Updates(updates).Error; err != nil {
			log.Printf("Failed to update category %d: %v", categoryID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategoryHandler soft-deletes a category; its row stays behind so
// restore is possible and nothing referencing it breaks.
func DeleteCategoryHandler(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var category models.Category
	if err := DB.First(&category, uint(categoryID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := DB.Delete(&category).Error; err != nil {
		log.Printf("Failed to delete category %d: %v", categoryID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func RestoreCategoryHandler(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	result := DB.Unscoped().Model(&models.Category{}).Where("id = ?", uint(categoryID)).Update("deleted_at", nil)
	if result.Error != nil {
		log.Printf("Failed to restore category %d: %v", categoryID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var category models.Category
	if err := DB.First(&category, uint(categoryID)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

func CreateProductHandler(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := DB.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		CategoryID: category.ID,
		Name:       req.Name,
		BasePrice:  req.BasePrice,
		SortOrder:  req.SortOrder,
	}
	for _, opt := range req.Options {
		product.Options = append(product.Options, models.ProductOption{
			Name:       opt.Name,
			PriceDelta: opt.PriceDelta,
			IsRequired: opt.IsRequired,
			SortOrder:  opt.SortOrder,
		})
	}

	if err := DB.Create(&product).Error; err != nil {
		log.Printf("Failed to create product %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProductHandler updates basic fields and, when options are supplied,
// replaces the product's option set wholesale. Old options are soft-deleted so
// existing order snapshots keep their ids around.
func UpdateProductHandler(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := DB.First(&product, uint(productID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.BasePrice != nil {
			updates["base_price"] = *req.BasePrice
		}
		if req.SortOrder != nil {
			updates["sort_order"] = *req.SortOrder
		}
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Options != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductOption{}).Error; err != nil {
				return err
			}
			for _, opt := range *req.Options {
				newOpt := models.ProductOption{
					ProductID:  product.ID,
					Name:       opt.Name,
					PriceDelta: opt.PriceDelta,
					IsRequired: opt.IsRequired,
					SortOrder:  opt.SortOrder,
				}
				if err := tx.Create(&newOpt).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to update product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var updated models.Product
	if err := DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&updated, product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProductHandler soft-deletes a product, making it unorderable while
// keeping historical order snapshots intact.
func DeleteProductHandler(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var product models.Product
	if err := DB.First(&product, uint(productID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := DB.Delete(&product).Error; err != nil {
		log.Printf("Failed to delete product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func RestoreProductHandler(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	result := DB.Unscoped().Model(&models.Product{}).Where("id = ?", uint(productID)).Update("deleted_at", nil)
	if result.Error != nil {
		log.Printf("Failed to restore product %d: %v", productID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var product models.Product
	if err := DB.First(&product, uint(productID)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}
