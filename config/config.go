package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	AssetStoreLocal  = "local"
	AssetStoreGridFS = "gridfs"
)

// Config is loaded from process environment only; there are no config files.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	AssetStore    string
	UploadDir     string
	PublicBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          envOrDefault("PORT", "5000"),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDB:       envOrDefault("MONGODB_DB", "building3d"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AssetStore:    envOrDefault("ASSET_STORE", AssetStoreLocal),
		UploadDir:     envOrDefault("UPLOAD_DIR", "uploads/floor-maps"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.AssetStore != AssetStoreLocal && cfg.AssetStore != AssetStoreGridFS {
		return nil, fmt.Errorf("ASSET_STORE must be %q or %q, got %q", AssetStoreLocal, AssetStoreGridFS, cfg.AssetStore)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}
