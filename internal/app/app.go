package app

import (
	"fmt"
	"strings"
	"time"

	"defnixsite/internal/storage"
	"defnixsite/internal/store"
	"defnixsite/pkg/auth"
)

const defaultMaxUploadBytes = 20 * 1024 * 1024

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL    string
	Store          store.Store
	Objects        storage.ObjectStore
	JWTSecret      string
	JWTTTL         time.Duration
	SiteURL        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	UploadsDir     string
	MaxUploadBytes int64
}

// App is the core application service wiring storage, persistence and
// token logic behind the HTTP layer.
type App struct {
	store          store.Store
	objects        storage.ObjectStore
	tokens         *auth.TokenIssuer
	siteURL        string
	uploadsDir     string
	maxUploadBytes int64
}

// New constructs the application. MinIO backs media storage when an
// endpoint is configured; otherwise uploads land in a local directory
// and are served under /uploads/.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	uploadsDir := strings.TrimSpace(cfg.UploadsDir)
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	objects := cfg.Objects
	if objects == nil {
		var err error
		if strings.TrimSpace(cfg.MinioEndpoint) != "" {
			objects, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
			if err != nil {
				return nil, fmt.Errorf("init object store: %w", err)
			}
		} else {
			objects, err = storage.NewFileStore(uploadsDir)
			if err != nil {
				return nil, fmt.Errorf("init local file store: %w", err)
			}
		}
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	return &App{
		store:          dataStore,
		objects:        objects,
		tokens:         tokens,
		siteURL:        strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/"),
		uploadsDir:     uploadsDir,
		maxUploadBytes: maxUpload,
	}, nil
}

// MaxUploadBytes returns the configured upload size ceiling.
func (a *App) MaxUploadBytes() int64 {
	return a.maxUploadBytes
}

// UploadsDir returns the local uploads directory used by the file store.
func (a *App) UploadsDir() string {
	return a.uploadsDir
}
