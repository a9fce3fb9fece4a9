package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edtech-scanner/app-auth/internal/config"
	"github.com/edtech-scanner/app-auth/internal/handlers"
	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/middleware"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/services"
	"github.com/edtech-scanner/app-auth/internal/store"
	"github.com/edtech-scanner/app-auth/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// @title           App Auth API
// @version         1.0
// @description     Phone OTP and Google sign-in authentication service. Issues short-lived one-time passcodes over SMS, verifies them with per-phone rate limiting and lockout, and mints bearer session tokens with sign-out revocation.

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name auth
// @tag.description Authentication operations

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	if err := config.InitMongoDB(); err != nil {
		logging.Logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	config.InitRedis()

	cfg := config.AppConfig

	// Ephemeral state lives in Redis when available, otherwise in process
	// memory. The memory fallback is single-instance only.
	var ephemeral store.Store
	if config.Redis != nil {
		ephemeral = store.NewRedis(config.Redis)
	} else {
		logging.Logger.Warn("Redis unavailable, using in-memory ephemeral store")
		ephemeral = store.NewMemory()
	}

	var sender utils.Sender
	if cfg.SMSEnabled {
		sender = utils.NewGatewaySender(cfg.SMSGatewayURL, cfg.SMSGatewayToken)
	} else {
		logging.Logger.Warn("SMS delivery disabled, verification codes will be logged")
		sender = utils.NewLogSender()
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenExpiry)
	blacklist := services.NewTokenBlacklist(ephemeral, cfg.BlacklistTTL)
	authService := services.NewAuthService(
		services.NewOTPRateLimiter(ephemeral, cfg.OTPIssuanceMax, cfg.OTPIssuanceWindow),
		services.NewOTPService(ephemeral, cfg.OTPTTL, cfg.OTPAttemptWindow, cfg.OTPAttemptMax),
		tokens,
		blacklist,
		services.NewUserService(config.MongoDB, cfg.UserCollection),
		services.NewGoogleVerifier(cfg.GoogleClientID),
		sender,
	)
	authHandler := handlers.NewAuthHandler(authService)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", handlers.Health)

		auth := v1.Group("/auth")
		{
			auth.POST("/otp/send", authHandler.SendOTP)
			auth.POST("/otp/verify", authHandler.VerifyOTP)
			auth.POST("/google-signin", authHandler.GoogleSignIn)
			auth.POST("/signout", authHandler.SignOut)
			auth.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
