package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"fiber-storefront/config"
	"fiber-storefront/internal/delivery/http/middleware"
	v1 "fiber-storefront/internal/delivery/http/v1"
	"fiber-storefront/internal/domain"
	"fiber-storefront/internal/infrastructure/cache"
	"fiber-storefront/internal/infrastructure/cms"
	"fiber-storefront/internal/infrastructure/search"
	"fiber-storefront/internal/infrastructure/storefront"
	"fiber-storefront/internal/repository/memory"
	pgxrepo "fiber-storefront/internal/repository/pgx"
	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/logger"
	"fiber-storefront/pkg/storage"
	"fiber-storefront/pkg/utils"
)

const (
	serviceName = "fiber-storefront"
	version     = "1.0.0"
)

func main() {
	// Process env is enough to report config problems; .env may refine it below.
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.SetSecret(cfg.SessionSecret)

	ctx := context.Background()

	// --- Cart id slots: Postgres when configured, memory otherwise ---
	var (
		pool  *pgxpool.Pool
		slots domain.CartSlotRepository
		db    v1.Pinger
	)
	if cfg.DBUrl != "" {
		var err error
		pool, err = pgxrepo.NewPgxPool(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if cfg.DBAutoMigrate {
			if err := pgxrepo.EnsureSchema(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("Failed to prepare cart slot table")
			}
		}
		slots = pgxrepo.NewCartSlotRepository(pool)
		db = pool
		log.Info().Msg("Cart slots stored in PostgreSQL")
	} else {
		slots = memory.NewCartSlotRepository(cache.NewMemoryCache(cfg.SessionCookieMaxAge, 10*time.Minute), cfg.SessionCookieMaxAge)
		log.Warn().Msg("DB_DSN not set, cart slots are kept in memory")
	}

	// --- Upstream clients ---
	storefrontClient, err := storefront.New(storefront.Config{
		StoreDomain: cfg.StoreDomain,
		APIVersion:  cfg.StorefrontAPIVersion,
		Token:       cfg.StorefrontAPIToken,
		Timeout:     cfg.UpstreamTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storefront client")
	}

	searchClient, err := search.New(search.Config{
		AppID:       cfg.SearchAppID,
		APIKey:      cfg.SearchAPIKey,
		IndexPrefix: cfg.SearchIndexPrefix,
		Timeout:     cfg.UpstreamTimeout,
		Host:        cfg.SearchHost,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize search client")
	}

	contentRepo, err := newContentRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CMSSource).Msg("Failed to initialize CMS source")
	}

	// Initialize Cache (In-Memory)
	memCache := cache.NewMemoryCache(cfg.CacheContentTTL, 10*time.Minute)
	cartRegistry := cache.NewMemoryCache(cfg.CartSessionTTL, time.Minute)

	// --- Modules Initialization ---
	cartUC := usecase.NewCartUsecase(storefrontClient, slots, cartRegistry, cfg)
	catalogUC := usecase.NewCatalogUsecase(storefrontClient, contentRepo, memCache, cfg)
	contentUC := usecase.NewContentUsecase(contentRepo, memCache, cfg)
	searchUC := usecase.NewSearchUsecase(searchClient, memCache, cfg)
	sitemapUC := usecase.NewSitemapUsecase(contentRepo, cfg.PublicBaseURL, memCache, cfg)
	accountUC := usecase.NewAccountUsecase(storefrontClient)

	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Account: v1.NewAccountHandler(accountUC, cfg.IsProduction()),
		Cart:    v1.NewCartHandler(cartUC),
		Catalog: v1.NewCatalogHandler(catalogUC),
		Content: v1.NewContentHandler(contentUC),
		Search:  v1.NewSearchHandler(searchUC),
		Sitemap: v1.NewSitemapHandler(sitemapUC),
		Health:  v1.NewHealthHandler(db, cartUC.ActiveSessions),
	})

	// Visitors idle for 3 minutes are forgotten.
	rateLimiter := middleware.NewRateLimiter(
		ctx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	// Apply CORS, session, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.NewSessionMiddleware(cfg.SessionCookieMaxAge, cfg.IsProduction())(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart(serviceName, version, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	cartUC.Shutdown()
	if pool != nil {
		pool.Close()
	}
	logger.ServiceStop(serviceName)
}

// newContentRepository picks the CMS source named by CMS_SOURCE.
func newContentRepository(ctx context.Context, cfg *config.Config) (domain.ContentRepository, error) {
	if cfg.CMSSource == config.CMSSourceBucket {
		bucket, err := storage.NewBucketStorage(ctx, storage.BucketConfig{
			AccountID:       cfg.CMSBucketAccountID,
			Endpoint:        cfg.CMSBucketEndpoint,
			AccessKeyID:     cfg.CMSBucketAccessKeyID,
			AccessKeySecret: cfg.CMSBucketAccessKeySecret,
			BucketName:      cfg.CMSBucketName,
			Prefix:          cfg.CMSBucketPrefix,
			Timeout:         cfg.UpstreamTimeout,
		})
		if err != nil {
			return nil, err
		}
		return cms.NewBucketSource(bucket), nil
	}
	client, err := cms.NewQueryClient(cms.Config{
		ProjectID:  cfg.CMSProjectID,
		Dataset:    cfg.CMSDataset,
		APIVersion: cfg.CMSAPIVersion,
		Token:      cfg.CMSToken,
		Timeout:    cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
