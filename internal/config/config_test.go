package config

import (
	"os"
	"testing"
)

func TestLoadServerlessModeLowersUploadCeiling(t *testing.T) {
	_ = os.Setenv("GOSHARE_MODE", "serverless")
	defer os.Unsetenv("GOSHARE_MODE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Share.Mode != ModeServerless {
		t.Fatalf("expected serverless mode, got %q", cfg.Share.Mode)
	}
	if cfg.Share.MaxUploadSize != maxUploadServerless {
		t.Fatalf("expected ceiling %d, got %d", int64(maxUploadServerless), cfg.Share.MaxUploadSize)
	}
}

func TestLoadExplicitCeilingOverridesModeDefault(t *testing.T) {
	_ = os.Setenv("GOSHARE_MAX_UPLOAD_BYTES", "1024")
	defer os.Unsetenv("GOSHARE_MAX_UPLOAD_BYTES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Share.MaxUploadSize != 1024 {
		t.Fatalf("expected ceiling 1024, got %d", cfg.Share.MaxUploadSize)
	}
}

func TestLoadAllowedClientsList(t *testing.T) {
	_ = os.Setenv("ALLOWED_CLIENTS", "https://a.example.com, https://b.example.com")
	defer os.Unsetenv("ALLOWED_CLIENTS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	origins := cfg.Share.AllowedOrigins
	if len(origins) != 2 || origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_ = os.Setenv("GOSHARE_STORAGE_BACKEND", "s3")
	defer os.Unsetenv("GOSHARE_STORAGE_BACKEND")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
