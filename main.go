package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/auth"
	"github.com/InfinitechAdCorp/izakayaadmin/captcha"
	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/checkout"
	"github.com/InfinitechAdCorp/izakayaadmin/config"
	"github.com/InfinitechAdCorp/izakayaadmin/delivery"
	"github.com/InfinitechAdCorp/izakayaadmin/events"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/InfinitechAdCorp/izakayaadmin/routes"
	"github.com/InfinitechAdCorp/izakayaadmin/storage"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.APIURL == "" {
		logger.Warn("⚠️ API_URL is not set, every backend route will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("❌ Cart storage unavailable", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}

	client := upstream.New(cfg.APIURL, cfg.APIToken, cfg.UpstreamTimeout, logger)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.OrderTopic, logger)
	defer publisher.Close()

	feed := events.NewHub(logger)
	defer feed.Close()

	resolver := delivery.NewResolver(client, cfg.BaseDeliveryFee, logger)
	sessions := checkout.NewSessions(resolver, cfg.FeeDebounce, cfg.CheckoutIdleTTL, logger)
	go sessions.Run(ctx)

	carts := cart.NewRegistry(kv, cfg.CartIdleTTL, logger)
	go carts.Run(ctx)

	orchestrator := checkout.NewOrchestrator(client, publisher, feed, logger)

	deps := routes.Deps{
		Client:       client,
		Captcha:      captcha.NewVerifier(cfg.RecaptchaSecret, cfg.RecaptchaVerifyURL, cfg.UpstreamTimeout, logger),
		Issuer:       auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Carts:        carts,
		Sessions:     sessions,
		Orchestrator: orchestrator,
		Resolver:     resolver,
		Publisher:    publisher,
		Feed:         feed,
		ImageBaseURL: cfg.APIURL,
		Logger:       logger,
	}

	// Gin setup
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", auth.SessionHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", auth.SessionHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Receipts are only named, never stored
	r.MaxMultipartMemory = 8 << 20

	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 Server running",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageDriver),
			zap.Bool("kafka", cfg.KafkaBrokers != ""),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	orchestrator.Wait()
}

// newLogger builds the production logger at the configured level.
func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	return logger
}
