package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the Platinumlist Bahrain crawl.
const (
	DefaultAffiliateCode  = "bahrainnights"
	DefaultBaseOrigin     = "https://bahrain.platinumlist.net"
	DefaultConversionRate = 0.376 // USD -> BHD
	DefaultRequestDelay   = 2 * time.Second
	DefaultMaxRetries     = 3
)

// Config holds everything one pipeline run needs. Immutable for the
// duration of the run.
type Config struct {
	// Crawl parameters
	AffiliateCode  string
	BaseOrigin     string
	ConversionRate float64
	RequestDelay   time.Duration
	MaxRetries     int
	Headless       bool

	// Persistent store
	DatabaseURL string

	// Object storage
	StorageEndpoint  string
	StorageBucket    string
	StorageAccessKey string
	StorageSecretKey string
	StorageUseSSL    bool

	// Optional Prometheus listener, empty disables it
	MetricsAddr string
}

// Load builds a Config from defaults overridden by environment variables.
// Flag-level overrides are applied afterwards by the CLI layer.
func Load() *Config {
	return &Config{
		AffiliateCode:    envString("AFFILIATE_CODE", DefaultAffiliateCode),
		BaseOrigin:       envString("SCRAPE_BASE_ORIGIN", DefaultBaseOrigin),
		ConversionRate:   envFloat("USD_TO_BHD_RATE", DefaultConversionRate),
		RequestDelay:     envDuration("SCRAPE_REQUEST_DELAY", DefaultRequestDelay),
		MaxRetries:       envInt("SCRAPE_MAX_RETRIES", DefaultMaxRetries),
		Headless:         envBool("SCRAPE_HEADLESS", true),
		DatabaseURL:      envString("DATABASE_URL", ""),
		StorageEndpoint:  envString("STORAGE_ENDPOINT", ""),
		StorageBucket:    envString("STORAGE_BUCKET", "event-images"),
		StorageAccessKey: envString("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: envString("STORAGE_SECRET_KEY", ""),
		StorageUseSSL:    envBool("STORAGE_USE_SSL", true),
		MetricsAddr:      envString("METRICS_ADDR", ""),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
