package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/byteristo/pkg/auth"
	"github.com/example/byteristo/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Username and password required")
		return
	}

	var user models.User
	err := s.db.WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondErrorDetail(c, http.StatusInternalServerError, "Login error", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusForbidden, "Account is disabled")
		return
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.db.WithContext(c.Request.Context()).Model(&user).Update("last_login", now).Error; err != nil {
		s.logger.Warn("Failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	accessToken, err := auth.NewAccessToken(&s.config.JWT, &user)
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Login error", err)
		return
	}
	refreshToken, err := auth.NewRefreshToken(&s.config.JWT, &user)
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Login error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Login successful",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetail(c, http.StatusBadRequest, "Validation error", err)
		return
	}

	if !auth.ValidRole(req.Role) {
		respondError(c, http.StatusBadRequest, "Invalid role: "+req.Role)
		return
	}

	db := s.db.WithContext(c.Request.Context())

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err == nil && count > 0 {
		respondError(c, http.StatusBadRequest, "Username already exists")
		return
	}
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err == nil && count > 0 {
		respondError(c, http.StatusBadRequest, "Email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Registration error", err)
		return
	}

	user := models.User{
		ID:           newID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		IsActive:     true,
	}

	if err := db.Create(&user).Error; err != nil {
		respondDBError(c, err, "User not found", "Registration error")
		return
	}

	s.auditLog(c, "register_user", user.ID, bson.M{"username": user.Username, "role": user.Role})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

func (s *Server) getRoles(c *gin.Context) {
	claims := claimsFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"your_role":       claims.Role,
		"available_roles": auth.Roles,
	})
}

func (s *Server) refreshToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if len(header) < len("Bearer ") {
		respondError(c, http.StatusUnauthorized, "Authorization token required")
		return
	}

	claims, err := auth.ParseToken(&s.config.JWT, header[len("Bearer "):])
	if err != nil || !claims.IsRefresh() {
		respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	var user models.User
	if err := s.db.WithContext(c.Request.Context()).Where("id = ?", claims.UserID()).First(&user).Error; err != nil || !user.IsActive {
		respondError(c, http.StatusNotFound, "User not found or inactive")
		return
	}

	accessToken, err := auth.NewAccessToken(&s.config.JWT, &user)
	if err != nil {
		respondErrorDetail(c, http.StatusInternalServerError, "Token refresh error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": accessToken,
	})
}

// logout acknowledges the request; token disposal is client-side.
func (s *Server) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
