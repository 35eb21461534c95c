package main

import (
	"fmt"
	"net/http"
	"os"

	"finpal/internal/config"
	"finpal/internal/database"
	"finpal/internal/handlers"
	"finpal/internal/logger"
	"finpal/internal/middleware"
	"finpal/internal/services"
	"finpal/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "finpal/internal/docs" // Import swagger docs
)

// @title           FinPal API
// @version         1.0
// @description     FinPal is a personal finance application that tracks transactions, savings goals, spending nudges, and a built-in financial assistant.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	nudgeService := services.NewNudgeService(db)
	transactionService := services.NewTransactionService(db, nudgeService)
	savingsService := services.NewSavingsService(db)
	assistantService := services.NewAssistantService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	savingsHandler := handlers.NewSavingsHandler(savingsService, auditService)
	nudgeHandler := handlers.NewNudgeHandler(nudgeService)
	chatHandler := handlers.NewChatHandler(assistantService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Savings goal routes
	savings := protected.Group("/savings")
	savings.POST("", savingsHandler.CreateGoal)
	savings.GET("", savingsHandler.ListGoals)
	savings.GET("/transactions", savingsHandler.ListSavingsTransactions)
	savings.GET("/:id", savingsHandler.GetGoal)
	savings.PUT("/:id", savingsHandler.UpdateGoal)
	savings.DELETE("/:id", savingsHandler.DeleteGoal)
	savings.POST("/:id/fund", savingsHandler.FundGoal)

	// Nudge routes
	nudges := protected.Group("/nudges")
	nudges.GET("", nudgeHandler.ListNudges)
	nudges.POST("/generate", nudgeHandler.GenerateNudges)
	nudges.POST("/:id/read", nudgeHandler.MarkNudgeRead)

	// Assistant chat routes
	chat := protected.Group("/chat")
	chat.POST("/messages", chatHandler.SendMessage)
	chat.GET("/messages", chatHandler.GetHistory)

	log.Infof("Starting FinPal backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
