package api

import (
	"strings"
	"time"

	"atlas/internal/auth"
	"atlas/internal/config"
	"atlas/internal/model"
	"atlas/internal/service"
	"atlas/internal/storage"
)

// HTTPHandler carries the shared dependencies of every HTTP handler.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string

	authManager   *auth.Manager
	matrix        *auth.Matrix
	authService   *auth.Service
	reportService *service.ReportService
}

// NewHTTPHandler wires the handler with its token manager, permission
// matrix, auth service, and report service.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	matrix, err := auth.NewMatrix()
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		matrix:            matrix,
		authService:       auth.NewService(repo, repo, authManager),
		reportService:     service.NewReportService(repo, store),
	}, nil
}

func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
