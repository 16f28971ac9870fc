package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/byteristo/pkg/models"
	"github.com/example/byteristo/pkg/orders"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

type createOrderItemRequest struct {
	MenuItemID          string `json:"menu_item_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,gt=0"`
	SpecialInstructions string `json:"special_instructions"`
}

type createOrderRequest struct {
	TableNumber         int                      `json:"table_number" binding:"required,gt=0"`
	CustomerName        string                   `json:"customer_name"`
	OrderType           string                   `json:"order_type" binding:"required,oneof=dine_in takeout delivery"`
	SpecialInstructions string                   `json:"special_instructions"`
	Items               []createOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type paymentRequest struct {
	PaymentMethod string   `json:"payment_method"`
	PaymentAmount *float64 `json:"payment_amount"`
}

func (s *Server) getAllOrders(c *gin.Context) {
	query := s.db.WithContext(c.Request.Context()).Model(&models.Order{}).Preload("Items")

	if status := c.Query("status"); status != "" {
		if status == "active" {
			query = query.Where("status IN ?", orders.ActiveStatuses)
		} else {
			query = query.Where("status = ?", status)
		}
	}
	if tableNumber := c.Query("table_number"); tableNumber != "" {
		n, err := strconv.Atoi(tableNumber)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid table number")
			return
		}
		query = query.Where("table_number = ?", n)
	}
	if orderType := c.Query("order_type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}

	var results []models.Order
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error fetching orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}

func (s *Server) getOrder(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := s.db.WithContext(c.Request.Context()).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		respondDBError(c, err, "Order not found", "Error fetching order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// createOrder validates every referenced menu item, snapshots names and
// prices, computes totals and writes the order and its items in one
// transaction. Any unavailable item rejects the whole order.
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	menuItemIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		menuItemIDs = append(menuItemIDs, item.MenuItemID)
	}

	var available []models.MenuItem
	if err := db.Where("id IN ? AND is_available = ?", menuItemIDs, true).Find(&available).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error creating order", err)
		return
	}

	availableByID := make(map[string]*models.MenuItem, len(available))
	for i := range available {
		availableByID[available[i].ID] = &available[i]
	}

	var unavailable []string
	for _, id := range menuItemIDs {
		if _, ok := availableByID[id]; !ok {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":           false,
			"message":           "Some menu items are not available",
			"unavailable_items": unavailable,
		})
		return
	}

	now := time.Now().UTC()
	orderID := newID()

	items := make([]models.OrderItem, 0, len(req.Items))
	prepTimes := make([]int, 0, len(req.Items))
	for _, line := range req.Items {
		menuItem := availableByID[line.MenuItemID]
		prepTimes = append(prepTimes, menuItem.PreparationTime)
		items = append(items, models.OrderItem{
			ID:                  newID(),
			OrderID:             orderID,
			MenuItemID:          menuItem.ID,
			MenuItemName:        menuItem.Name,
			Quantity:            line.Quantity,
			UnitPrice:           menuItem.Price,
			TotalPrice:          orders.LineTotal(menuItem.Price, line.Quantity, menuItem.TaxAmount),
			SpecialInstructions: line.SpecialInstructions,
			Status:              orders.ItemStatusPreparing,
		})
	}

	total, discount, final := orders.Totals(items)
	estimated := orders.EstimatedCompletion(now, prepTimes)

	order := models.Order{
		ID:                      orderID,
		OrderNumber:             orders.GenerateOrderNumber(now),
		TableNumber:             req.TableNumber,
		CustomerName:            req.CustomerName,
		Status:                  orders.StatusConfirmed,
		OrderType:               req.OrderType,
		TotalAmount:             total,
		DiscountAmount:          discount,
		FinalAmount:             final,
		SpecialInstructions:     req.SpecialInstructions,
		EstimatedCompletionTime: &estimated,
		Items:                   items,
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		respondDBError(c, err, "Order not found", "Error creating order")
		return
	}

	s.auditLog(c, "create_order", order.ID, bson.M{
		"order_number": order.OrderNumber,
		"final_amount": order.FinalAmount,
		"items":        len(order.Items),
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created successfully",
		"data":    order,
	})
}

// updateOrderStatus sets the order status. The only guard is enum
// membership. Moving to preparing, ready or delivered promotes every item
// still pending to the same status.
func (s *Server) updateOrderStatus(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}
	if !orders.ValidStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status: "+req.Status)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var order models.Order
	if err := db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		respondDBError(c, err, "Order not found", "Error updating order status")
		return
	}

	order.Status = req.Status
	promoted := orders.PromotePendingItems(&order, req.Status)

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", order.Status).Error; err != nil {
			return err
		}
		if len(promoted) > 0 {
			if err := tx.Model(&models.OrderItem{}).Where("id IN ?", promoted).Update("status", req.Status).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error updating order status", err)
		return
	}

	s.auditLog(c, "update_order_status", order.ID, bson.M{
		"status":         req.Status,
		"promoted_items": len(promoted),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}

// updateOrderItemStatus sets one item's status; once every item of the
// order is ready or served, the order itself is promoted to ready.
func (s *Server) updateOrderItemStatus(c *gin.Context) {
	orderID := c.Param("id")
	itemID := c.Param("item_id")
	if !validID(orderID) || !validID(itemID) {
		respondError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}
	if !orders.ValidItemStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status: "+req.Status)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var order models.Order
	if err := db.Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
		respondDBError(c, err, "Order not found", "Error updating order item status")
		return
	}

	var target *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			target = &order.Items[i]
			break
		}
	}
	if target == nil {
		respondError(c, http.StatusNotFound, "Order item not found")
		return
	}

	target.Status = req.Status
	orderPromoted := false
	if orders.AllItemsComplete(order.Items) && order.Status != orders.StatusReady {
		order.Status = orders.StatusReady
		orderPromoted = true
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", itemID).Update("status", req.Status).Error; err != nil {
			return err
		}
		if orderPromoted {
			return tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", order.Status).Error
		}
		return nil
	}); err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error updating order item status", err)
		return
	}

	s.auditLog(c, "update_order_item_status", itemID, bson.M{
		"order_id":       order.ID,
		"status":         req.Status,
		"order_promoted": orderPromoted,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order item status updated successfully",
		"data":    order,
	})
}

// payOrder flips a ready or delivered order to payed. An explicit amount
// below the final amount is rejected; change is computed when an amount is
// given.
func (s *Server) payOrder(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = orders.PaymentCash
	}
	if !orders.ValidPaymentMethod(req.PaymentMethod) {
		respondError(c, http.StatusBadRequest, "Invalid payment method: "+req.PaymentMethod)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var order models.Order
	if err := db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		respondDBError(c, err, "Order not found", "Error processing payment")
		return
	}

	if !orders.CanPay(order.Status) {
		respondError(c, http.StatusBadRequest,
			"Order must be ready or delivered to be paid. Current status: "+order.Status)
		return
	}

	change, err := orders.ChangeDue(req.PaymentAmount, order.FinalAmount)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order.Status = orders.StatusPayed
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", order.Status).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error processing payment", err)
		return
	}

	s.auditLog(c, "pay_order", order.ID, bson.M{
		"order_number": order.OrderNumber,
		"method":       req.PaymentMethod,
		"amount":       order.FinalAmount,
		"change":       change,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment processed successfully",
		"data":    order,
		"payment_info": gin.H{
			"method": req.PaymentMethod,
			"amount": order.FinalAmount,
			"change": change,
		},
	})
}

// deleteOrder removes a pending or cancelled order together with its items.
func (s *Server) deleteOrder(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var order models.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		respondDBError(c, err, "Order not found", "Error deleting order")
		return
	}

	if !orders.CanDelete(order.Status) {
		respondError(c, http.StatusBadRequest, "Can only delete pending or cancelled orders")
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	}); err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error deleting order", err)
		return
	}

	s.auditLog(c, "delete_order", id, bson.M{"order_number": order.OrderNumber})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted successfully",
	})
}
