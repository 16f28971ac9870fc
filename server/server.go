package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/byteristo/pkg/auth"
	"github.com/example/byteristo/pkg/config"
	"github.com/example/byteristo/pkg/models"
	"github.com/example/byteristo/pkg/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB
	cache  *repository.RedisRepository
	audit  *repository.MongoRepository
	router *gin.Engine
}

func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Connect to MySQL
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.CheckIn{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Product{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	// Redis
	cache := repository.NewRedisRepository(&cfg.Redis)

	// MongoDB
	audit, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(cors.Default())

	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		cache:  cache,
		audit:  audit,
		router: router,
	}

	if err := s.bootstrapManager(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap manager: %w", err)
	}

	return s, nil
}

func (s *Server) SetupRoutes() {
	s.router.GET("/", s.serviceInfo)

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   s.config.Server.Name,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := s.router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.login)
			authGroup.POST("/register", s.requireAuth, s.requireRole(models.RoleManager), s.register)
			authGroup.GET("/roles", s.requireAuth, s.getRoles)
			authGroup.POST("/refresh", s.refreshToken)
			authGroup.POST("/logout", s.requireAuth, s.logout)
		}

		menu := api.Group("/menu")
		{
			menu.GET("/", s.getAllMenuItems)
			menu.GET("/available", s.getAvailableMenuItems)
			menu.GET("/:id", s.getMenuItem)
			menu.POST("/", s.requireAuth, s.requirePermission("menu.create"), s.createMenuItem)
			menu.PUT("/:id", s.requireAuth, s.requirePermission("menu.update"), s.updateMenuItem)
			menu.DELETE("/:id", s.requireAuth, s.requireRole(models.RoleManager), s.deleteMenuItem)
		}

		orders := api.Group("/orders", s.requireAuth)
		{
			orders.GET("/", s.getAllOrders)
			orders.GET("/:id", s.getOrder)
			orders.POST("/", s.requirePermission("order.create"), s.createOrder)
			orders.PUT("/:id/status", s.requirePermission("order.update_status"), s.updateOrderStatus)
			orders.PUT("/:id/items/:item_id/status", s.requirePermission("order.update_status"), s.updateOrderItemStatus)
			orders.POST("/:id/pay", s.requirePermission("order.update_payment"), s.payOrder)
			orders.DELETE("/:id", s.requireRole(models.RoleManager), s.deleteOrder)
		}

		inventory := api.Group("/inventory", s.requireAuth)
		{
			inventory.GET("/", s.getProducts)
			inventory.GET("/:id", s.getProduct)
			inventory.POST("/", s.requirePermission("inventory.create"), s.createProduct)
			inventory.PUT("/:id", s.requirePermission("inventory.update"), s.updateProduct)
			inventory.PATCH("/:id/quantity", s.requirePermission("inventory.update"), s.adjustProductQuantity)
			inventory.DELETE("/:id", s.requirePermission("inventory.delete"), s.deleteProduct)
		}

		users := api.Group("/users", s.requireAuth)
		{
			users.GET("/", s.requireRole(models.RoleManager), s.getUsers)
			users.GET("/me", s.getCurrentUser)
			users.GET("/:id", s.requireRole(models.RoleManager), s.getUser)
			users.PUT("/:id", s.requireRole(models.RoleManager), s.updateUser)
			users.PATCH("/:id", s.requireRole(models.RoleManager), s.patchUser)
			users.DELETE("/:id", s.requireRole(models.RoleManager), s.deleteUser)
			users.PUT("/:id/password", s.changePassword)

			users.GET("/:id/checkins", s.getUserCheckIns)
			users.POST("/:id/checkins", s.createCheckIn)
			users.GET("/:id/checkins/current", s.getCurrentCheckIn)
			users.GET("/:id/checkins/:checkin_id", s.getCheckIn)
			users.PUT("/:id/checkins/:checkin_id", s.checkOut)
			users.DELETE("/:id/checkins/:checkin_id", s.requireRole(models.RoleManager), s.deleteCheckIn)
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

func (s *Server) Close() error {
	s.cache.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.audit.Close(ctx)
}

func (s *Server) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   s.config.Server.Name,
		"version":   "2.0.0",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": gin.H{
			"auth":      "/api/auth",
			"users":     "/api/users",
			"menu":      "/api/menu",
			"orders":    "/api/orders",
			"inventory": "/api/inventory",
			"docs":      "/swagger/index.html",
		},
	})
}

// bootstrapManager creates the default manager account from config when no
// user with that email exists yet.
func (s *Server) bootstrapManager() error {
	cfg := s.config.Manager
	if cfg.Email == "" || cfg.Password == "" {
		s.logger.Warn("No manager credentials configured, skipping bootstrap")
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", cfg.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	username := cfg.Username
	if username == "" {
		username = "manager"
	}

	manager := &models.User{
		ID:           newID(),
		Username:     username,
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         models.RoleManager,
		FullName:     "System Manager",
		IsActive:     true,
	}
	if err := s.db.Create(manager).Error; err != nil {
		return err
	}

	s.logger.Info("Default manager created", zap.String("email", manager.Email))
	return nil
}

// auditLog records a privileged mutation. Writes are fire-and-forget so a
// slow audit store never blocks the request path.
func (s *Server) auditLog(c *gin.Context, action, entityID string, data bson.M) {
	if s.audit == nil {
		return
	}
	entry := &repository.AuditLog{
		Action:   action,
		EntityID: entityID,
		Data:     data,
	}
	if claims := claimsFrom(c); claims != nil {
		entry.ActorID = claims.UserID()
		entry.ActorRole = claims.Role
	}
	go func() {
		if err := s.audit.CreateAuditLog(context.Background(), entry); err != nil {
			s.logger.Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
		}
	}()
}
