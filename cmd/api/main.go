package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uslugo/backend/internal/adapters/cache"
	"github.com/uslugo/backend/internal/adapters/database"
	"github.com/uslugo/backend/internal/adapters/events"
	"github.com/uslugo/backend/internal/adapters/providers/rewrite"
	"github.com/uslugo/backend/internal/adapters/ratelimit"
	"github.com/uslugo/backend/internal/adapters/search"
	"github.com/uslugo/backend/internal/api/handlers"
	"github.com/uslugo/backend/internal/api/middleware"
	"github.com/uslugo/backend/internal/api/routes"
	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/domain/providers"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/clients/openai"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
	"github.com/uslugo/backend/internal/infrastructure/clients/redis"
	"github.com/uslugo/backend/internal/infrastructure/clients/typesense"
	"github.com/uslugo/backend/internal/infrastructure/observability"
	"github.com/uslugo/backend/pkg/config"
	"github.com/uslugo/backend/pkg/secrets"
)

func main() {

	// Hydrate environment from Vault before reading configuration, so the
	// database and OpenAI credentials can live outside the deployment env
	vaultCfg := secrets.LoadVaultConfigFromEnv("")
	if vaultCfg.Enabled {
		vaultCtx, vaultCancel := context.WithTimeout(context.Background(), vaultCfg.Timeout)
		result, err := secrets.ApplyVaultSecrets(vaultCtx, vaultCfg)
		vaultCancel()
		if err != nil {
			log.Printf("Warning: Failed to load secrets from Vault: %v", err)
		} else {
			log.Printf("Loaded %d secrets from Vault path %s", result.Loaded, result.Path)
		}
	}

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		redisClient = nil
		// Continue without Redis - caching and rate limiting degrade below
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	var typesenseClient *typesense.Client
	if cfg.Typesense.URL != "" {
		typesenseClient, err = typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Printf("Warning: Failed to initialize Typesense client: %v", err)
			typesenseClient = nil
		} else {
			log.Println("Typesense client initialized successfully")
		}
	} else {
		log.Println("Typesense disabled (TYPESENSE_URL not set); text search uses database fallback")
	}

	// Initialize adapters

	listingAdapter := database.NewListingAdapter(pgClient)
	searchAdapter := database.NewSearchAdapter(pgClient)
	searchEventAdapter := database.NewSearchEventAdapter(pgClient)
	preferenceAdapter := database.NewPreferenceAdapter(pgClient)

	var lexicalEngine repositories.LexicalSearchEngine
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure schema exists
		if err := typesenseClient.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}

		lexicalEngine = adapter
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for cache invalidation fan-out
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Rate limit counters live in Redis so limits hold across instances; a
	// single instance without Redis falls back to in-process counters.
	var rateLimitStore providers.RateLimitStore
	if redisClient != nil {
		rateLimitStore = ratelimit.NewRedisStore(redisClient)
	} else {
		log.Println("Warning: Redis unavailable; rate limiting uses in-memory counters")
		rateLimitStore = ratelimit.NewMemoryStore()
	}

	var embeddingProvider providers.EmbeddingProvider
	var rewriteProvider providers.QueryRewriteProvider
	if cfg.OpenAI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; semantic search disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			embeddingProvider = openaiClient
			rewriteProvider = openaiClient
		}
	}
	if rewriteProvider == nil {
		dictProvider, err := rewrite.NewDictionaryProvider(os.Getenv("QUERY_DICTIONARY_PATH"))
		if err != nil {
			log.Printf("Warning: Failed to load query dictionary: %v", err)
		} else {
			rewriteProvider = dictProvider
			log.Println("Query rewriting uses the static dictionary (no OpenAI key)")
		}
	}

	// Initialize services

	rewriteService := services.NewQueryRewriteService(rewriteProvider)
	analyticsService := services.NewSearchAnalyticsService(searchEventAdapter, eventBus)

	searchService := services.NewSearchService(
		searchAdapter,
		listingAdapter,
		lexicalEngine,
		embeddingProvider,
		rewriteService,
		analyticsService,
		cfg.Search,
		metrics,
	)

	suggestionService := services.NewSuggestionService(
		searchEventAdapter,
		preferenceAdapter,
		cacheProvider,
		cfg.Search.SuggestTTLSec,
		metrics,
	)

	preferenceService := services.NewPreferenceService(preferenceAdapter)

	rateLimitService := services.NewRateLimitService(rateLimitStore, cfg.RateLimit)

	// Initialize cache invalidation service
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
		} else {
			log.Println("Cache invalidation service started successfully")
		}
	}

	// Initialize handlers

	searchHandler := handlers.NewSearchHandler(searchService, rewriteService)

	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, preferenceService)

	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, metrics)

	// Set up router

	router := routes.NewRouter(
		searchHandler,
		suggestionHandler,
		analyticsHandler,
		rateLimitMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	// Stop cache invalidation service
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Println("Server stopped")
}
