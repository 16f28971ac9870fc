package server

import (
	"net/http"

	"github.com/example/byteristo/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type createMenuItemRequest struct {
	Name            string             `json:"name" binding:"required,max=100"`
	Description     string             `json:"description"`
	ImageURL        string             `json:"image_url"`
	Price           *float64           `json:"price" binding:"required,gte=0"`
	TaxAmount       *float64           `json:"tax_amount" binding:"omitempty,gte=0,lte=1"`
	Category        string             `json:"category" binding:"required"`
	IsAvailable     *bool              `json:"is_available"`
	PreparationTime int                `json:"preparation_time" binding:"required,gte=1"`
	Allergens       []string           `json:"allergens"`
	NutritionalInfo map[string]float64 `json:"nutritional_info"`
}

type updateMenuItemRequest struct {
	Name            *string            `json:"name" binding:"omitempty,max=100"`
	Description     *string            `json:"description"`
	ImageURL        *string            `json:"image_url"`
	Price           *float64           `json:"price" binding:"omitempty,gte=0"`
	TaxAmount       *float64           `json:"tax_amount" binding:"omitempty,gte=0,lte=1"`
	Category        *string            `json:"category"`
	IsAvailable     *bool              `json:"is_available"`
	PreparationTime *int               `json:"preparation_time" binding:"omitempty,gte=1"`
	Allergens       []string           `json:"allergens"`
	NutritionalInfo map[string]float64 `json:"nutritional_info"`
}

func (s *Server) getAllMenuItems(c *gin.Context) {
	query := s.db.WithContext(c.Request.Context()).Model(&models.MenuItem{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if available := c.Query("available"); available != "" {
		query = query.Where("is_available = ?", available == "true")
	}

	var items []models.MenuItem
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error fetching menu items", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

func (s *Server) getAvailableMenuItems(c *gin.Context) {
	ctx := c.Request.Context()

	// Serve from cache when warm
	if cached, err := s.cache.GetAvailableMenuCache(ctx); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    cached,
			"count":   len(cached),
		})
		return
	}

	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Where("is_available = ?", true).Find(&items).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error fetching available menu items", err)
		return
	}

	if err := s.cache.CacheAvailableMenu(ctx, items); err != nil {
		s.logger.Warn("Failed to cache available menu", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

func (s *Server) getMenuItem(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid menu item ID format")
		return
	}

	ctx := c.Request.Context()
	if cached, err := s.cache.GetMenuItemCache(ctx, id); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cached})
		return
	}

	var item models.MenuItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		respondDBError(c, err, "Menu item not found", "Error fetching menu item")
		return
	}

	if err := s.cache.CacheMenuItem(ctx, &item); err != nil {
		s.logger.Warn("Failed to cache menu item", zap.String("id", id), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

func (s *Server) createMenuItem(c *gin.Context) {
	var req createMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	if !models.ValidCategory(req.Category) {
		respondError(c, http.StatusBadRequest, "Invalid category: "+req.Category)
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	item := models.MenuItem{
		ID:              newID(),
		Name:            req.Name,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Price:           *req.Price,
		TaxAmount:       req.TaxAmount,
		Category:        req.Category,
		IsAvailable:     isAvailable,
		PreparationTime: req.PreparationTime,
		Allergens:       req.Allergens,
		NutritionalInfo: req.NutritionalInfo,
	}

	if err := s.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		respondDBError(c, err, "Menu item not found", "Error creating menu item")
		return
	}

	s.cache.InvalidateMenu(c.Request.Context(), item.ID)
	s.auditLog(c, "create_menu_item", item.ID, bson.M{"name": item.Name, "price": item.Price})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Menu item created successfully",
		"data":    item,
	})
}

func (s *Server) updateMenuItem(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid menu item ID format")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var item models.MenuItem
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		respondDBError(c, err, "Menu item not found", "Error updating menu item")
		return
	}

	var req updateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	if req.Category != nil && !models.ValidCategory(*req.Category) {
		respondError(c, http.StatusBadRequest, "Invalid category: "+*req.Category)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.TaxAmount != nil {
		item.TaxAmount = req.TaxAmount
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.PreparationTime != nil {
		item.PreparationTime = *req.PreparationTime
	}
	if req.Allergens != nil {
		item.Allergens = req.Allergens
	}
	if req.NutritionalInfo != nil {
		item.NutritionalInfo = req.NutritionalInfo
	}

	if err := db.Save(&item).Error; err != nil {
		respondDBError(c, err, "Menu item not found", "Error updating menu item")
		return
	}

	s.cache.InvalidateMenu(c.Request.Context(), item.ID)
	s.auditLog(c, "update_menu_item", item.ID, bson.M{"name": item.Name})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item updated successfully",
		"data":    item,
	})
}

// deleteMenuItem removes the item and cascades to every order item that
// references it. The cascade destroys historical order lines; that is the
// documented behavior of the menu catalog.
func (s *Server) deleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid menu item ID format")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var item models.MenuItem
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		respondDBError(c, err, "Menu item not found", "Error deleting menu item")
		return
	}

	var associated int64
	db.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&associated)
	if associated > 0 {
		s.logger.Info("Menu item delete cascades to order items",
			zap.String("menu_item_id", id),
			zap.Int64("order_items", associated))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error deleting menu item", err)
		return
	}

	s.cache.InvalidateMenu(c.Request.Context(), id)
	s.auditLog(c, "delete_menu_item", id, bson.M{"name": item.Name, "cascaded_order_items": associated})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item deleted successfully",
	})
}
