package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SANITY_PROJECT_ID", "abc123")
	t.Setenv("SANITY_DATASET", "production")
	t.Setenv("SANITY_API_TOKEN", "sk-test")
	t.Setenv("CONTACT_DEFAULT_PHONE", "+1 555 0100")
	t.Setenv("CONTACT_STUDY_ABROAD_PHONE", "+1 555 0200")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("SANITY_API_VERSION", "")
	t.Setenv("CONTENT_CACHE_PATH", "")
	t.Setenv("SANITY_USE_CDN", "")
	t.Setenv("SANITY_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if !cfg.Production() {
		t.Fatalf("expected production by default, got %q", cfg.AppEnv)
	}
	if cfg.SanityAPIVersion != "2024-01-01" {
		t.Fatalf("unexpected api version %q", cfg.SanityAPIVersion)
	}
	if !cfg.SanityUseCDN {
		t.Fatal("expected CDN to be enabled by default")
	}
	if cfg.CacheEnabled() {
		t.Fatal("cache should be disabled without CONTENT_CACHE_PATH")
	}
	if cfg.SanityTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.SanityTimeout)
	}
}

func TestLoadReportsEveryMissingKey(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "")
	t.Setenv("SANITY_DATASET", "")
	t.Setenv("SANITY_API_TOKEN", "")
	t.Setenv("CONTACT_DEFAULT_PHONE", "")
	t.Setenv("CONTACT_STUDY_ABROAD_PHONE", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("expected ErrMissingConfig, got %v", err)
	}
	for _, key := range []string{"SANITY_PROJECT_ID", "SANITY_DATASET", "SANITY_API_TOKEN", "CONTACT_DEFAULT_PHONE", "CONTACT_STUDY_ABROAD_PHONE"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s in error, got %v", key, err)
		}
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "Development")
	t.Setenv("SANITY_TIMEOUT", "")
	t.Setenv("SANITY_API_VERSION", "v2021-10-21")
	t.Setenv("SANITY_USE_CDN", "false")
	t.Setenv("CONTENT_CACHE_PATH", "/tmp/cache.db")
	t.Setenv("CONTENT_CACHE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Production() {
		t.Fatal("expected development environment")
	}
	if cfg.SanityAPIVersion != "2021-10-21" {
		t.Fatalf("expected version prefix to be stripped, got %q", cfg.SanityAPIVersion)
	}
	if cfg.SanityUseCDN {
		t.Fatal("expected CDN to be disabled")
	}
	if !cfg.CacheEnabled() || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache config: %q %v", cfg.CachePath, cfg.CacheTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("APP_ENV", "")
	t.Setenv("SANITY_USE_CDN", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid bool to fail")
	}

	t.Setenv("SANITY_USE_CDN", "")
	t.Setenv("APP_ENV", "staging")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown APP_ENV to fail")
	}
}

func TestLoadRejectsUnusableContactPhones(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("SANITY_USE_CDN", "")
	t.Setenv("SANITY_TIMEOUT", "")

	tests := []struct {
		name        string
		general     string
		studyAbroad string
	}{
		{name: "no digits", general: "ask reception", studyAbroad: "+1 555 0200"},
		{name: "same number", general: "+1 555 0100", studyAbroad: "1-555-0100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONTACT_DEFAULT_PHONE", tt.general)
			t.Setenv("CONTACT_STUDY_ABROAD_PHONE", tt.studyAbroad)
			if _, err := Load(); err == nil {
				t.Fatal("expected contact phone validation to fail")
			}
		})
	}
}
