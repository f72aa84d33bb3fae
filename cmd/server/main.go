package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lore-server/internal/aiclient"
	"lore-server/internal/analysis"
	"lore-server/internal/authutils"
	"lore-server/internal/config"
	"lore-server/internal/database"
	"lore-server/internal/handler"
	"lore-server/internal/logger"
	"lore-server/internal/maintenance"
	"lore-server/internal/messaging"
	"lore-server/internal/middleware"
	"lore-server/internal/quota"
	"lore-server/internal/ratelimit"
	"lore-server/internal/repository"
	"lore-server/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

const (
	backendRedis  = "redis"
	backendMemory = "memory"

	rateLimitKeyPrefix = "lore:ratelimit:analyze:"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogFormat})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))

	budgetLocation, err := cfg.BudgetLocation()
	if err != nil {
		zap.L().Fatal("Invalid budget timezone", zap.Error(err))
	}
	rate, err := ratelimit.ParseRate(cfg.AIRateLimit)
	if err != nil {
		zap.L().Fatal("Invalid AI_RATE_LIMIT", zap.String("value", cfg.AIRateLimit), zap.Error(err))
	}

	// --- External Connections ---
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgPool, err := database.Connect(rootCtx, database.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
		Attempts:    cfg.DBConnAttempts,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	if err := database.ApplyMigrations(cfg.PostgresDSN(), log); err != nil {
		zap.L().Fatal("Failed to apply migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.QuotaBackend == backendRedis || cfg.RateLimitBackend == backendRedis {
		redisClient, err = setupRedis(rootCtx, cfg)
		if err != nil {
			zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	scheduler := maintenance.NewScheduler(log)

	// --- Quota ledger ---
	var ledger quota.Ledger
	switch cfg.QuotaBackend {
	case backendRedis:
		ledger = quota.NewRedisLedger(redisClient, log)
	case backendMemory:
		memLedger := quota.NewMemoryLedger(budgetLocation)
		if err := scheduler.Add("prune-token-ledger", "@hourly", func() int { return memLedger.Prune(time.Now()) }); err != nil {
			zap.L().Fatal("Failed to schedule ledger pruning", zap.Error(err))
		}
		ledger = memLedger
		zap.L().Warn("Using in-process token ledger: the daily budget is not shared between instances")
	default:
		zap.L().Fatal("Unknown QUOTA_BACKEND", zap.String("value", cfg.QuotaBackend))
	}

	// --- Rate limiter ---
	var limiter ratelimit.Limiter
	switch cfg.RateLimitBackend {
	case backendRedis:
		limiter = ratelimit.NewRedisLimiter(redisClient, rate, rateLimitKeyPrefix, log)
	case backendMemory:
		memLimiter := ratelimit.NewMemoryLimiter(rate)
		if err := scheduler.Add("sweep-rate-limiter", "@every 5m", memLimiter.Sweep); err != nil {
			zap.L().Fatal("Failed to schedule limiter sweep", zap.Error(err))
		}
		limiter = memLimiter
	default:
		zap.L().Fatal("Unknown RATE_LIMIT_BACKEND", zap.String("value", cfg.RateLimitBackend))
	}
	zap.L().Info("AI rate limit configured", zap.String("rate", rate.String()), zap.String("backend", cfg.RateLimitBackend))

	// --- AI client ---
	aiClient, err := aiclient.New(aiclient.Config{
		ClientType: cfg.AIClientType,
		APIKey:     cfg.AIAPIKey,
		BaseURL:    cfg.AIBaseURL,
		Timeout:    cfg.AITimeout,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to create AI client", zap.Error(err))
	}
	credentialed := aiClient != nil

	// --- Usage events ---
	var publisher analysis.UsagePublisher = messaging.NoopUsagePublisher{}
	var mqConn *amqp091.Connection
	if cfg.RabbitMQURL != "" {
		mqConn, err = messaging.Connect(rootCtx, cfg.RabbitMQURL, 10, 3*time.Second, log)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()
		publisher, err = messaging.NewRabbitUsagePublisher(mqConn, cfg.AIUsageQueue, log)
		if err != nil {
			zap.L().Fatal("Failed to create usage publisher", zap.Error(err))
		}
	}

	// --- Dependency Injection ---
	analyzer := analysis.NewService(
		analysis.NewEnvResolver(func() bool { return credentialed }, log),
		ledger,
		aiClient,
		log,
		analysis.WithEstimator(aiclient.NewTiktokenEstimator()),
		analysis.WithUsagePublisher(publisher),
		analysis.WithLocation(budgetLocation),
	)
	loreSvc := service.NewLoreService(service.Repositories{
		Locations:  repository.NewPgLocationRepository(pgPool, log),
		Factions:   repository.NewPgFactionRepository(pgPool, log),
		Items:      repository.NewPgItemRepository(pgPool, log),
		Characters: repository.NewPgCharacterRepository(pgPool, log),
		Stories:    repository.NewPgStoryRepository(pgPool, log),
	}, analyzer, log)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, log)
	if err != nil {
		zap.L().Fatal("Failed to create token verifier", zap.Error(err))
	}
	rateLimitMiddleware := handler.NewAnalyzeRateLimiter(ratelimit.NewGinStore(limiter, log), log)
	loreHandler := handler.NewLoreHandler(loreSvc, verifier, rateLimitMiddleware, log)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))
	// Registered before the routes so their requests are counted.
	p.Use(router)

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	loreHandler.RegisterRoutes(router)

	scheduler.Start()
	defer scheduler.Stop()

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	zap.L().Info("Starting HTTP server",
		zap.String("port", cfg.ServerPort),
		zap.Bool("ai_credentialed", credentialed),
		zap.String("quota_backend", cfg.QuotaBackend),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-rootCtx.Done()
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupRedis creates the Redis client and pings it, retrying while Redis starts.
func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	zap.L().Info("Redis connection options configured", zap.String("address", redisOpts.Addr), zap.Int("db", redisOpts.DB))

	maxRetries := 20
	retryDelay := 3 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1
		client := redis.NewClient(redisOpts)

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := client.Ping(pingCtx).Result()
		pingCancel()

		if err == nil {
			zap.L().Info("Successfully connected and pinged Redis", zap.Int("attempt", attempt))
			return client, nil
		}

		client.Close()
		lastErr = fmt.Errorf("unable to ping redis (attempt %d/%d): %w", attempt, maxRetries, err)
		zap.L().Warn("Redis ping failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, lastErr)
}
