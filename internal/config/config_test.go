package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEDIA_CHUNK_SIZE", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("UPLOAD_FOLDER", "")

	cfg := Load()
	if cfg.ChunkSize != 6_000_000 {
		t.Fatalf("chunk size = %d, want 6000000", cfg.ChunkSize)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session ttl = %s, want 2h", cfg.SessionTTL)
	}
	if cfg.UploadFolder != "studio-gallery" {
		t.Fatalf("upload folder = %q", cfg.UploadFolder)
	}
	if cfg.ProxyMaxBodyBytes != 2<<30 {
		t.Fatalf("proxy max body = %d", cfg.ProxyMaxBodyBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "  Owner@Studio.COM ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("LOGIN_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	if cfg.AdminEmail != "owner@studio.com" {
		t.Fatalf("admin email = %q", cfg.AdminEmail)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if !cfg.StorageUseSSL {
		t.Fatalf("expected ssl enabled")
	}
	if cfg.LoginRateLimitPerMinute != 5 {
		t.Fatalf("rate limit = %d", cfg.LoginRateLimitPerMinute)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("invalid duration should fall back, got %s", cfg.SessionTTL)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
}
