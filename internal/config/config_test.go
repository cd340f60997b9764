package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AffiliateCode != DefaultAffiliateCode {
		t.Errorf("expected affiliate code %q, got %q", DefaultAffiliateCode, cfg.AffiliateCode)
	}
	if cfg.BaseOrigin != DefaultBaseOrigin {
		t.Errorf("expected base origin %q, got %q", DefaultBaseOrigin, cfg.BaseOrigin)
	}
	if cfg.ConversionRate != DefaultConversionRate {
		t.Errorf("expected conversion rate %v, got %v", DefaultConversionRate, cfg.ConversionRate)
	}
	if cfg.RequestDelay != DefaultRequestDelay {
		t.Errorf("expected request delay %v, got %v", DefaultRequestDelay, cfg.RequestDelay)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("expected max retries %d, got %d", DefaultMaxRetries, cfg.MaxRetries)
	}
	if !cfg.Headless {
		t.Error("expected headless by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AFFILIATE_CODE", "custom-code")
	t.Setenv("USD_TO_BHD_RATE", "0.5")
	t.Setenv("SCRAPE_REQUEST_DELAY", "250ms")
	t.Setenv("SCRAPE_MAX_RETRIES", "7")
	t.Setenv("SCRAPE_HEADLESS", "false")

	cfg := Load()

	if cfg.AffiliateCode != "custom-code" {
		t.Errorf("expected overridden affiliate code, got %q", cfg.AffiliateCode)
	}
	if cfg.ConversionRate != 0.5 {
		t.Errorf("expected overridden rate 0.5, got %v", cfg.ConversionRate)
	}
	if cfg.RequestDelay != 250*time.Millisecond {
		t.Errorf("expected overridden delay 250ms, got %v", cfg.RequestDelay)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("expected overridden retries 7, got %d", cfg.MaxRetries)
	}
	if cfg.Headless {
		t.Error("expected headless disabled via env")
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("USD_TO_BHD_RATE", "not-a-number")
	t.Setenv("SCRAPE_MAX_RETRIES", "many")
	t.Setenv("SCRAPE_REQUEST_DELAY", "soon")

	cfg := Load()

	if cfg.ConversionRate != DefaultConversionRate {
		t.Errorf("expected default rate on malformed env, got %v", cfg.ConversionRate)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("expected default retries on malformed env, got %d", cfg.MaxRetries)
	}
	if cfg.RequestDelay != DefaultRequestDelay {
		t.Errorf("expected default delay on malformed env, got %v", cfg.RequestDelay)
	}
}
