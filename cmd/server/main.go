package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juanis2112/repoexplorer/internal/handlers"
	"github.com/juanis2112/repoexplorer/internal/middleware"
	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/internal/services"
	"github.com/juanis2112/repoexplorer/pkg/config"
	"github.com/juanis2112/repoexplorer/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	gin.SetMode(config.AppConfig.Server.Mode)

	// Load the dataset once at startup. The table is immutable afterwards;
	// every session derives its filtered views from this shared copy.
	datasetService := services.NewDatasetService(config.AppConfig.Data)
	dataset := datasetService.Load()

	// Initialize dependencies
	filterService := services.NewFilterService()
	sessionService := services.NewSessionService(dataset, filterService)
	aggregationService := services.NewAggregationService(config.AppConfig.Charts)
	commitHistoryService := services.NewCommitHistoryService(config.AppConfig.Data)
	exportService := services.NewExportService(aggregationService)

	// Initialize router
	router := gin.Default()
	router.Use(middleware.SessionMiddleware())

	setupRoutes(router, sessionService, filterService, aggregationService, commitHistoryService, exportService, dataset)

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	sessionService *services.SessionService,
	filterService *services.FilterService,
	aggregationService *services.AggregationService,
	commitHistoryService *services.CommitHistoryService,
	exportService *services.ExportService,
	dataset *models.Dataset,
) {
	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(sessionService, aggregationService, commitHistoryService, exportService)
	repositoryHandler := handlers.NewRepositoryHandler(sessionService, filterService)
	chatHandler := handlers.NewChatHandler(sessionService)
	healthHandler := handlers.NewHealthHandler(dataset)

	api := router.Group("/api")
	{
		api.GET("/overview", dashboardHandler.Overview)
		api.GET("/charts/:name", dashboardHandler.Chart)

		api.GET("/filters", dashboardHandler.GetFilters)
		api.POST("/filters", dashboardHandler.UpdateFilters)
		api.POST("/filters/reset", dashboardHandler.ResetFilters)

		api.GET("/repositories", repositoryHandler.List)
		api.GET("/repositories/:id", repositoryHandler.Get)

		api.POST("/chat/result", chatHandler.SetResult)
		api.POST("/chat/clear", chatHandler.Clear)
		api.GET("/chat/instructions", chatHandler.Instructions)

		api.GET("/export", dashboardHandler.Export)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
}
