package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"hktplatform.app/api/common/id"
	"hktplatform.app/api/common/llm"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/common/otel"
	"hktplatform.app/api/core/config"
	"hktplatform.app/api/core/db"
	"hktplatform.app/api/internal/ethrpc"
	"hktplatform.app/api/internal/http/middleware"
	httprouter "hktplatform.app/api/internal/http/router"
	"hktplatform.app/api/internal/pricefeed"
	"hktplatform.app/api/internal/queue"
	"hktplatform.app/api/internal/service"
	"hktplatform.app/api/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "hkt api starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(cfg.DB.DSN); err != nil {
			slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "migrations applied")
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Notifications.Stream)

	emailProducer := queue.NewRedisProducer(redisClient, cfg.Notifications.Stream, slog.Default())
	defer emailProducer.Close()

	stores := store.NewStores(database.Queries())
	outbound := &http.Client{Timeout: 10 * time.Second}

	hktFallback, err := decimal.NewFromString(cfg.Prices.HKTFallbackUSD)
	if err != nil {
		slog.WarnContext(ctx, "invalid HKT fallback price, disabling fallback", "value", cfg.Prices.HKTFallbackUSD, "error", err)
		hktFallback = decimal.Zero
	}
	priceCache := pricefeed.NewRedisCache(redisClient, cfg.Prices.CacheTTL)
	priceReader := pricefeed.NewReader(priceCache, stores.Prices(), cfg.Prices.Symbols, hktFallback)

	refresher := pricefeed.NewRefresher(pricefeed.Sources(cfg.Prices, outbound), priceCache, stores.Prices())
	if err := refresher.Start(ctx, cfg.Prices.RefreshCron); err != nil {
		slog.ErrorContext(ctx, "failed to start price refresher", "error", err, "schedule", cfg.Prices.RefreshCron)
		os.Exit(1)
	}
	defer refresher.Stop()

	housekeeper := service.NewHousekeeper(stores.Sessions(), stores.Challenges(), stores.Prices(), cfg.Prices.HistoryRetention)
	if err := housekeeper.Start(ctx, cfg.Prices.HousekeepingCron); err != nil {
		slog.ErrorContext(ctx, "failed to start housekeeping", "error", err, "schedule", cfg.Prices.HousekeepingCron)
		os.Exit(1)
	}
	defer housekeeper.Stop()

	var assistant llm.AgentClient
	if cfg.AssistantLLM.Enabled() {
		assistant, err = llm.NewAgentClient(llm.Config{
			Provider:        cfg.AssistantLLM.Provider,
			APIKey:          cfg.AssistantLLM.APIKey,
			BaseURL:         cfg.AssistantLLM.BaseURL,
			Model:           cfg.AssistantLLM.Model,
			ReasoningEffort: llm.ReasoningEffort(cfg.AssistantLLM.ReasoningEffort),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create assistant llm client", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "assistant enabled", "provider", cfg.AssistantLLM.Provider, "model", assistant.Model())
	} else {
		slog.InfoContext(ctx, "assistant disabled (no llm configured)")
	}

	services := service.NewServices(service.ServicesConfig{
		Stores:       stores,
		TxRunner:     service.NewTxRunner(database),
		Notifier:     service.NewNotifier(emailProducer),
		Prices:       priceReader,
		Balances:     ethrpc.NewClient(outbound),
		Assistant:    assistant,
		WorkOS:       cfg.WorkOS,
		FrontendURL:  cfg.FrontendURL,
		SupportEmail: cfg.Mail.SupportEmail,
		MaxTokens:    cfg.AssistantLLM.MaxTokens,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second, // assistant rounds can be slow
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Metrics sees the final status → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Metrics())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		FrontendURL:   cfg.FrontendURL,
		SessionSecure: cfg.SessionSecure,
		AdminAPIKey:   cfg.AdminAPIKey,
		RateLimit:     cfg.RateLimit,
	})

	return router
}

const banner = `
██╗  ██╗██╗  ██╗████████╗     █████╗ ██████╗ ██╗
██║  ██║██║ ██╔╝╚══██╔══╝    ██╔══██╗██╔══██╗██║
███████║█████╔╝    ██║       ███████║██████╔╝██║
██╔══██║██╔═██╗    ██║       ██╔══██║██╔═══╝ ██║
██║  ██║██║  ██╗   ██║       ██║  ██║██║     ██║
╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝       ╚═╝  ╚═╝╚═╝     ╚═╝
`
