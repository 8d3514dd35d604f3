// Package main is the entry point for the expense service.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/config"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/database"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/handlers"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/repository"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/routes"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/service"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/storage"
	"github.com/rafaelmolinari2019/expensaflow-app/pkg/redis"
)

// @title ExpensaFlow API
// @version 1.0
// @description Expense reporting service: employees submit claims, administrators review them
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// Structured logging for everything past startup
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis (stats cache)
	redisClient := redis.NewClient(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	// Initialize receipt storage
	receiptStore := storage.NewReceiptStore(cfg.UploadDir)

	// Initialize services
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if jwtService == nil {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}
	authService := service.NewAuthService(userRepo, jwtService, cfg.AdminEmail, cfg.BcryptCost)
	expenseService := service.NewExpenseService(expenseRepo, receiptStore, redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, receiptStore)
	userHandler := handlers.NewUserHandler(authService)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, cfg, jwtService, authHandler, expenseHandler, userHandler, healthHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting expense service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
