package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"audioscribe/internal/api/handlers"
	"audioscribe/internal/api/middleware"
	"audioscribe/internal/app/assemblyai"
	"audioscribe/internal/app/history"
	"audioscribe/internal/app/secret"
	"audioscribe/internal/config"
)

// Server represents the API server
type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	repo history.Repository,
	secrets secret.Store,
	client *assemblyai.Client,
	logger *zap.Logger,
) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	historyHandler := handlers.NewHistoryHandler(repo)
	configHandler := handlers.NewConfigHandler(secrets)
	providerHandler := handlers.NewAssemblyAIHandler(client)
	infosHandler := handlers.NewInfosHandler(repo, secrets, cfg.Server.Port)

	api := router.Group("/api")
	{
		hist := api.Group("/history")
		{
			hist.GET("", historyHandler.List)
			hist.POST("", historyHandler.Add)
			hist.DELETE("", historyHandler.Clear)
			hist.GET("/export", historyHandler.Export)
			hist.POST("/import", historyHandler.Import)
			hist.GET("/:id", historyHandler.Get)
			hist.DELETE("/:id", historyHandler.Delete)
		}

		cfgGroup := api.Group("/config")
		{
			cfgGroup.GET("/api-key", configHandler.GetAPIKey)
			cfgGroup.POST("/api-key", configHandler.SetAPIKey)
		}

		provider := api.Group("/assemblyai")
		{
			provider.POST("/upload", providerHandler.Upload)
			provider.POST("/transcripts", providerHandler.CreateTranscript)
			provider.GET("/transcripts/:id", providerHandler.GetTranscript)
		}

		api.GET("/infos", infosHandler.Infos)

		// Translation is not wired to any backend.
		api.POST("/translate", func(c *gin.Context) {
			c.JSON(http.StatusNotImplemented, gin.H{
				"error":   "Translation feature is not configured",
				"message": "This feature requires additional configuration.",
			})
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start starts the API server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.Server.Environment),
		zap.String("store_backend", s.config.Store.Backend),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
