package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"expensetracker/internal/config"
	"expensetracker/internal/handler"
	"expensetracker/internal/middleware"
	"expensetracker/internal/repository"
	"expensetracker/internal/service"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
	http   *http.Server
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) *Server {
	authRepo := repository.NewAuthRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	return &Server{
		router: NewRouter(cfg, logger, authRepo, expenseRepo),
		logger: logger,
	}
}

// NewRouter wires repositories, services, handlers and the middleware
// chain into a gin engine. Taking the repository interfaces directly lets
// tests drive the full router against in-memory fakes.
func NewRouter(cfg *config.Config, logger *zap.Logger, authRepo repository.AuthRepository, expenseRepo repository.ExpenseRepository) *gin.Engine {
	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	authService := service.NewAuthService(authRepo, tokenService, logger)
	expenseService := service.NewExpenseService(expenseRepo, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	expenseHandler := handler.NewExpenseHandler(expenseService, logger)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.Metrics(),
	)
	if cfg.CORS.AllowedOrigin != "" {
		router.Use(middleware.CORS(cfg.CORS.AllowedOrigin))
	}

	// Ping route for health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication routes
	authGroup := router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Expense routes; everything below requires an authenticated principal.
	expenseGroup := router.Group("/api/expenses")
	expenseGroup.Use(middleware.Auth(tokenService, authRepo, logger))
	{
		expenseGroup.POST("", expenseHandler.Create)
		expenseGroup.GET("", expenseHandler.List)
		expenseGroup.GET("/:id", expenseHandler.GetByID)
		expenseGroup.PUT("/:id", expenseHandler.Update)
		expenseGroup.DELETE("/:id", expenseHandler.Delete)
	}

	return router
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
