package server

import (
	"net/http"
	"time"

	"github.com/example/byteristo/pkg/auth"
	"github.com/example/byteristo/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type updateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (s *Server) getUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.WithContext(c.Request.Context()).Find(&users).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error fetching users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

func (s *Server) getCurrentUser(c *gin.Context) {
	claims := claimsFrom(c)

	var user models.User
	if err := s.db.WithContext(c.Request.Context()).Where("id = ?", claims.UserID()).First(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Error fetching user info")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (s *Server) getUser(c *gin.Context) {
	var user models.User
	if err := s.db.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Error fetching user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (s *Server) updateUser(c *gin.Context) {
	s.applyUserUpdate(c)
}

func (s *Server) patchUser(c *gin.Context) {
	s.applyUserUpdate(c)
}

// applyUserUpdate updates the provided fields only. Setting is_active to
// false is the well-behaved deactivation path; DELETE is the hard one.
func (s *Server) applyUserUpdate(c *gin.Context) {
	db := s.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Error updating user")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	if req.Role != nil && !auth.ValidRole(*req.Role) {
		respondError(c, http.StatusBadRequest, "Invalid role: "+*req.Role)
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := db.Save(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Error updating user")
		return
	}

	s.auditLog(c, "update_user", user.ID, bson.M{"role": user.Role, "is_active": user.IsActive})

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (s *Server) deleteUser(c *gin.Context) {
	db := s.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Error deleting user")
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error deleting user", err)
		return
	}

	s.auditLog(c, "delete_user", user.ID, bson.M{"username": user.Username})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

// changePassword lets a user change their own password after verifying the
// current one; a manager may reset any password without it.
func (s *Server) changePassword(c *gin.Context) {
	claims := claimsFrom(c)
	targetID := c.Param("id")

	isManager := claims.Role == models.RoleManager
	if claims.UserID() != targetID && !isManager {
		respondError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("id = ?", targetID).First(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Error changing password")
		return
	}

	if !isManager {
		if req.CurrentPassword == "" || !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error changing password", err)
		return
	}

	if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error changing password", err)
		return
	}

	s.auditLog(c, "change_password", user.ID, bson.M{"by_manager": isManager})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

// ========== CHECK-IN SUB-RESOURCE ==========

// canActOnUser scopes check-in operations: non-managers act only on their
// own user id.
func canActOnUser(claims *auth.Claims, userID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID() == userID || claims.Role == models.RoleManager
}

func (s *Server) getUserCheckIns(c *gin.Context) {
	userID := c.Param("id")
	if !canActOnUser(claimsFrom(c), userID) {
		respondError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	var checkIns []models.CheckIn
	err := s.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("check_in_time DESC").
		Find(&checkIns).Error
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error fetching check-ins", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": checkIns})
}

func (s *Server) createCheckIn(c *gin.Context) {
	userID := c.Param("id")
	if !canActOnUser(claimsFrom(c), userID) {
		respondError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var open int64
	if err := db.Model(&models.CheckIn{}).Where("user_id = ? AND check_out_time IS NULL", userID).Count(&open).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error during check-in", err)
		return
	}
	if open > 0 {
		respondError(c, http.StatusBadRequest, "User already checked in")
		return
	}

	checkIn := models.CheckIn{
		ID:          newID(),
		UserID:      userID,
		CheckInTime: time.Now().UTC(),
	}

	if err := db.Create(&checkIn).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error during check-in", err)
		return
	}

	s.auditLog(c, "check_in", checkIn.ID, bson.M{"user_id": userID})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Check-in successful",
		"data":    checkIn,
	})
}

func (s *Server) getCurrentCheckIn(c *gin.Context) {
	userID := c.Param("id")
	if !canActOnUser(claimsFrom(c), userID) {
		respondError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	var checkIn models.CheckIn
	err := s.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND check_out_time IS NULL", userID).
		First(&checkIn).Error
	if err != nil {
		respondDBError(c, err, "No active check-in found", "Error fetching check-in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": checkIn})
}

func (s *Server) getCheckIn(c *gin.Context) {
	userID := c.Param("id")
	if !canActOnUser(claimsFrom(c), userID) {
		respondError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	var checkIn models.CheckIn
	err := s.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", c.Param("checkin_id"), userID).
		First(&checkIn).Error
	if err != nil {
		respondDBError(c, err, "Check-in not found", "Error fetching check-in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": checkIn})
}

// checkOut closes an open check-in. A second check-out on the same row is
// rejected.
func (s *Server) checkOut(c *gin.Context) {
	userID := c.Param("id")
	if !canActOnUser(claimsFrom(c), userID) {
		respondError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var checkIn models.CheckIn
	err := db.Where("id = ? AND user_id = ?", c.Param("checkin_id"), userID).First(&checkIn).Error
	if err != nil {
		respondDBError(c, err, "Check-in not found", "Error during check-out")
		return
	}

	if checkIn.CheckOutTime != nil {
		respondError(c, http.StatusBadRequest, "Already checked out")
		return
	}

	now := time.Now().UTC()
	checkIn.CheckOutTime = &now
	if err := db.Model(&checkIn).Update("check_out_time", now).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error during check-out", err)
		return
	}

	s.auditLog(c, "check_out", checkIn.ID, bson.M{"user_id": userID})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check-out successful",
		"data":    checkIn,
	})
}

func (s *Server) deleteCheckIn(c *gin.Context) {
	db := s.db.WithContext(c.Request.Context())

	var checkIn models.CheckIn
	err := db.Where("id = ? AND user_id = ?", c.Param("checkin_id"), c.Param("id")).First(&checkIn).Error
	if err != nil {
		respondDBError(c, err, "Check-in not found", "Error deleting check-in")
		return
	}

	if err := db.Delete(&checkIn).Error; err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Error deleting check-in", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check-in deleted successfully",
	})
}
