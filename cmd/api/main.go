package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-quote-pricing/internal/config"
	"go-quote-pricing/internal/handler"
	"go-quote-pricing/internal/repository"
	"go-quote-pricing/internal/service"
	"go-quote-pricing/internal/ws"
	"go-quote-pricing/pkg/database"
	"go-quote-pricing/pkg/jwt"
	"go-quote-pricing/pkg/logger"
	"go-quote-pricing/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(database.Options{
		DSN:             cfg.PostgresDSN(),
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		LogSQL:          cfg.Postgres.LogSQL,
	})
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. WebSocket Hub
	wsHub := ws.NewHub(zlog.Named("ws"))
	go wsHub.Run(ctx)

	// 4. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricing(registry)

	// 5. Dependency Injection (Wiring Layers)
	stores := service.PricingStores{
		Projects: repository.NewProjectRepo(db),
		Catalog:  repository.NewCatalogRepo(db),
		Drafts:   repository.NewDraftRepo(db),
		Prices:   repository.NewCommittedPriceRepo(db),
		Groups:   repository.NewCommittedGroupOptionRepo(db),
	}
	isolation, _ := cfg.Pricing.Isolation()

	pricingService := service.NewPricingService(db, stores, wsHub, pricingMetrics, zlog, service.PricingOptions{ReadIsolation: isolation})
	projectService := service.NewProjectService(db, stores, wsHub, zlog)
	catalogService := service.NewCatalogService(stores, zlog)

	signer := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Quote Pricing v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.Server.CORSOrigins, " ", ""),
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "database unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 7. Routes
	handler.RegisterRoutes(app.Group("/api/v1"), handler.Handlers{
		Projects: handler.NewProjectHandler(projectService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Pricing:  handler.NewPricingHandler(pricingService),
	}, signer)

	// WebSocket Route. Browsers cannot set headers on the upgrade, so the token comes as ?token=.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		if _, err := signer.ValidateToken(c.Query("token")); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Add(c) {
			c.Close()
			return
		}
		defer wsHub.Remove(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		zlog.Info("http server listening", zap.String("port", cfg.Server.HTTPPort), zap.String("env", cfg.Server.AppEnv))
		if err := app.Listen(":" + cfg.Server.HTTPPort); err != nil {
			zlog.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	zlog.Info("server exited")
}
