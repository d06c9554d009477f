package main

import (
	"log"
	"net/http"

	"devmatch/backend/internal/auth"
	"devmatch/backend/internal/config"
	"devmatch/backend/internal/database"
	"devmatch/backend/internal/directory"
	"devmatch/backend/internal/handler"
	"devmatch/backend/internal/hub"
	"devmatch/backend/internal/middleware"
	"devmatch/backend/internal/relation"
	"devmatch/backend/pkg/logger"
	"devmatch/backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "devmatch/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           DevMatch API
// @version         1.0
// @description     Developer matchmaking backend: profiles, discovery feed and the connection-request workflow.
// @host            localhost:7000
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	logger.Init(cfg.Mode, cfg.LogPath)
	defer logger.Log.Sync()

	database.Connect(cfg.DatabaseURL)

	dir := directory.NewGorm(database.DB)
	relationSvc := relation.NewService(dir)
	eventHub := hub.NewHub()
	relationHandler := handler.NewRelationHandler(relationSvc, eventHub)

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(logger.Log))
	router.Use(middleware.CORS(cfg.Origins()))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(monitoring.Middleware())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus scrape endpoint
	router.GET("/metrics", monitoring.Handler())

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API routes
	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", handler.RegisterUser)
			users.POST("/login", handler.LoginUser)
			users.POST("/logout", handler.LogoutUser)
		}

		// Protected routes
		protected := api.Group("/users")
		protected.Use(auth.Middleware())
		{
			protected.GET("/profile", handler.GetProfile)
			protected.PATCH("/update-profile", handler.UpdateProfile)
			protected.GET("/feed", relationHandler.Feed)
			protected.GET("/request/received", relationHandler.ReceivedRequests)
			protected.GET("/connections", relationHandler.Connections)
			protected.GET("/events", relationHandler.Events)

			// Connection-request workflow
			protected.PATCH("/request/sent/interested/:targetId", relationHandler.SendInterest)
			protected.PATCH("/request/sent/rejected/:targetId", relationHandler.WithdrawInterest)
			protected.PATCH("/review/request/accepted/:requestUserId", relationHandler.AcceptRequest)
			protected.PATCH("/review/request/rejected/:requestUserId", relationHandler.RejectRequest)
		}
	}

	logger.Log.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("mode", cfg.Mode),
	)
	log.Fatal(router.Run(":" + cfg.Port))
}
