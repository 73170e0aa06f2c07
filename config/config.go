package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"fiber-storefront/pkg/logger"
)

const (
	CMSSourceQuery  = "query"
	CMSSourceBucket = "bucket"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string // optional; cart id slots fall back to memory
	SessionSecret string
	AllowedOrigin string
	PublicBaseURL string // canonical origin used in sitemap and robots.txt
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	DBAutoMigrate     bool
	// Commerce backend
	StoreDomain          string
	StorefrontAPIVersion string
	StorefrontAPIToken   string
	UpstreamTimeout      time.Duration
	// CMS
	CMSSource     string
	CMSProjectID  string
	CMSDataset    string
	CMSAPIVersion string
	CMSToken      string
	// CMS bucket snapshots (S3 compatible)
	CMSBucketAccountID       string
	CMSBucketEndpoint        string
	CMSBucketAccessKeyID     string
	CMSBucketAccessKeySecret string
	CMSBucketName            string
	CMSBucketPrefix          string
	// Search index
	SearchAppID       string
	SearchAPIKey      string
	SearchIndexPrefix string
	SearchHost        string // overrides the hosted endpoint, mostly for tests
	// Cache
	CacheProductTTL time.Duration
	CacheContentTTL time.Duration
	CacheSearchTTL  time.Duration
	CacheSitemapTTL time.Duration
	// Cart
	SessionCookieMaxAge time.Duration
	CartSessionTTL      time.Duration
	CartMutationTimeout time.Duration
	MaxCartQuantity     int
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			logger.Get().Warn().Err(err).Str("file", configFile).Msg("Failed to load config file")
		} else {
			logger.Get().Info().Str("file", configFile).Msg("Loaded configuration file")
		}
	} else {
		// 2. Default fallback: .env for local dev, system env vars otherwise
		if err := godotenv.Load(); err != nil {
			logger.Get().Debug().Msg("No .env file found, relying on system env vars")
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		SessionSecret: getEnv("SESSION_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 10),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),
		DBAutoMigrate:     getBoolEnv("DB_AUTO_MIGRATE", true),

		StoreDomain:          getEnv("STORE_DOMAIN", ""),
		StorefrontAPIVersion: getEnv("STOREFRONT_API_VERSION", "2024-01"),
		StorefrontAPIToken:   getEnv("STOREFRONT_API_TOKEN", ""),
		UpstreamTimeout:      getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),

		CMSSource:     getEnv("CMS_SOURCE", CMSSourceQuery),
		CMSProjectID:  getEnv("CMS_PROJECT_ID", ""),
		CMSDataset:    getEnv("CMS_DATASET", "production"),
		CMSAPIVersion: getEnv("CMS_API_VERSION", "2024-01-01"),
		CMSToken:      getEnv("CMS_TOKEN", ""),

		CMSBucketAccountID:       getEnv("CMS_BUCKET_ACCOUNT_ID", ""),
		CMSBucketEndpoint:        getEnv("CMS_BUCKET_ENDPOINT", ""),
		CMSBucketAccessKeyID:     getEnv("CMS_BUCKET_ACCESS_KEY_ID", ""),
		CMSBucketAccessKeySecret: getEnv("CMS_BUCKET_ACCESS_KEY_SECRET", ""),
		CMSBucketName:            getEnv("CMS_BUCKET_NAME", ""),
		CMSBucketPrefix:          getEnv("CMS_BUCKET_PREFIX", "cms/"),

		SearchAppID:       getEnv("SEARCH_APP_ID", ""),
		SearchAPIKey:      getEnv("SEARCH_API_KEY", ""),
		SearchIndexPrefix: getEnv("SEARCH_INDEX_PREFIX", "shopify_"),
		SearchHost:        getEnv("SEARCH_HOST", ""),

		// Cache defaults: 10m Product, 5m Content, 1m Search, 24h Sitemap
		CacheProductTTL: getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		CacheContentTTL: getDurationEnv("CACHE_CONTENT_TTL", 5*time.Minute),
		CacheSearchTTL:  getDurationEnv("CACHE_SEARCH_TTL", time.Minute),
		CacheSitemapTTL: getDurationEnv("CACHE_SITEMAP_TTL", 24*time.Hour),

		SessionCookieMaxAge: getDurationEnv("SESSION_COOKIE_MAX_AGE", 30*24*time.Hour),
		CartSessionTTL:      getDurationEnv("CART_SESSION_TTL", 30*time.Minute),
		CartMutationTimeout: getDurationEnv("CART_MUTATION_TIMEOUT", 15*time.Second),
		MaxCartQuantity:     getIntEnv("MAX_CART_QUANTITY", 1000),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),
	}
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.StoreDomain == "" {
		errs = append(errs, errors.New("STORE_DOMAIN is required"))
	}
	if c.StorefrontAPIToken == "" {
		errs = append(errs, errors.New("STOREFRONT_API_TOKEN is required"))
	}
	switch c.CMSSource {
	case CMSSourceQuery:
		if c.CMSProjectID == "" {
			errs = append(errs, errors.New("CMS_PROJECT_ID is required when CMS_SOURCE=query"))
		}
	case CMSSourceBucket:
		if c.CMSBucketName == "" {
			errs = append(errs, errors.New("CMS_BUCKET_NAME is required when CMS_SOURCE=bucket"))
		}
		if c.CMSBucketAccountID == "" && c.CMSBucketEndpoint == "" {
			errs = append(errs, errors.New("CMS_BUCKET_ACCOUNT_ID or CMS_BUCKET_ENDPOINT is required when CMS_SOURCE=bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("CMS_SOURCE must be %q or %q", CMSSourceQuery, CMSSourceBucket))
	}
	if c.SearchAppID == "" || c.SearchAPIKey == "" {
		errs = append(errs, errors.New("SEARCH_APP_ID and SEARCH_API_KEY are required"))
	}
	if c.MaxCartQuantity < 1 {
		errs = append(errs, errors.New("MAX_CART_QUANTITY must be positive"))
	}
	if c.SessionSecret == "default_secret_CHANGE_ME" {
		if c.IsProduction() {
			errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
		} else {
			logger.Get().Warn().Msg("Using default session secret")
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		invalidEnv(key, value, "duration")
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		invalidEnv(key, value, "int")
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		invalidEnv(key, value, "float")
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		invalidEnv(key, value, "bool")
	}
	return fallback
}

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		invalidEnv(key, value, "int32")
	}
	return fallback
}

func invalidEnv(key, value, kind string) {
	logger.Get().Warn().Str("key", key).Str("value", value).Msgf("Invalid %s, using fallback", kind)
}
