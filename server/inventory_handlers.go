package server

import (
	"net/http"

	"github.com/example/byteristo/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type createProductRequest struct {
	EAN         string   `json:"ean" binding:"required"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Quantity    *int     `json:"quantity" binding:"omitempty,gte=0"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
	ImageURL    string   `json:"image_url" binding:"omitempty,max=255"`
}

type updateProductRequest struct {
	EAN         *string  `json:"ean"`
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
	ImageURL    *string  `json:"image_url" binding:"omitempty,max=255"`
}

// quantityRequest models a stock movement. Quantity is never overwritten
// directly; it moves through add, remove or set operations.
type quantityRequest struct {
	Operation string `json:"operation" binding:"required,oneof=add remove set"`
	Amount    *int   `json:"amount" binding:"required,gte=0"`
}

func (s *Server) getProducts(c *gin.Context) {
	var products []models.Product
	if err := s.db.WithContext(c.Request.Context()).Find(&products).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error fetching products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := s.db.WithContext(c.Request.Context()).Where("id = ?", id).First(&product).Error; err != nil {
		respondDBError(c, err, "Product not found", "Error fetching product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	if !models.ValidEAN(req.EAN) {
		respondError(c, http.StatusBadRequest, "EAN must be 8 or 13 digits")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var count int64
	if err := db.Model(&models.Product{}).Where("ean = ?", req.EAN).Count(&count).Error; err == nil && count > 0 {
		respondError(c, http.StatusConflict, "Product with this EAN already exists")
		return
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product := models.Product{
		ID:          newID(),
		EAN:         req.EAN,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    quantity,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}

	if err := db.Create(&product).Error; err != nil {
		respondDBError(c, err, "Product not found", "Error adding product")
		return
	}

	s.auditLog(c, "create_product", product.ID, bson.M{"ean": product.EAN, "name": product.Name})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product added successfully",
		"data":    product,
	})
}

func (s *Server) updateProduct(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var product models.Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		respondDBError(c, err, "Product not found", "Error updating product")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	if req.EAN != nil && *req.EAN != product.EAN {
		if !models.ValidEAN(*req.EAN) {
			respondError(c, http.StatusBadRequest, "EAN must be 8 or 13 digits")
			return
		}
		var count int64
		if err := db.Model(&models.Product{}).Where("ean = ?", *req.EAN).Count(&count).Error; err == nil && count > 0 {
			respondError(c, http.StatusConflict, "Product with this EAN already exists")
			return
		}
		product.EAN = *req.EAN
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := db.Save(&product).Error; err != nil {
		respondDBError(c, err, "Product not found", "Error updating product")
		return
	}

	s.auditLog(c, "update_product", product.ID, bson.M{"ean": product.EAN})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully",
		"data":    product,
	})
}

func (s *Server) adjustProductQuantity(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var product models.Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		respondDBError(c, err, "Product not found", "Error updating stock")
		return
	}

	amount := *req.Amount
	switch req.Operation {
	case "add":
		product.Quantity += amount
	case "remove":
		if amount > product.Quantity {
			respondError(c, http.StatusBadRequest, "Cannot remove more stock than available")
			return
		}
		product.Quantity -= amount
	case "set":
		product.Quantity = amount
	}

	if err := db.Model(&models.Product{}).Where("id = ?", id).Update("quantity", product.Quantity).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error updating stock", err)
		return
	}

	s.auditLog(c, "adjust_stock", product.ID, bson.M{
		"operation": req.Operation,
		"amount":    amount,
		"quantity":  product.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock updated successfully",
		"data":    product,
	})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var product models.Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		respondDBError(c, err, "Product not found", "Error deleting product")
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error deleting product", err)
		return
	}

	s.auditLog(c, "delete_product", id, bson.M{"ean": product.EAN, "name": product.Name})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product \"" + product.Name + "\" deleted successfully",
	})
}
