package handlers

import (
	"PassVault/internal/config"
	"PassVault/internal/middleware"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BackupEngine - операции резервного копирования, доступные через API.
type BackupEngine interface {
	Export(ctx context.Context) (service.ExportResult, error)
	ImportTokenWithPolicy(ctx context.Context, token []byte, policy model.DuplicatePolicy) (model.MergeResult, error)
	State() service.State
}

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	store repo.RecordRepository,
	engine BackupEngine,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	sessionHandler := NewSessionHandler(logger, config)
	recordHandler := NewRecordHandler(store, logger)
	backupHandler := NewBackupHandler(engine, logger, config)

	r.Post("/api/session", sessionHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		// Records
		r.Get("/api/records", recordHandler.List)
		r.Post("/api/records", recordHandler.Create)
		r.Get("/api/records/{id}", recordHandler.Get)
		r.Put("/api/records/{id}", recordHandler.Update)
		r.Delete("/api/records/{id}", recordHandler.Delete)

		// Categories
		r.Get("/api/categories", recordHandler.Categories)
		r.Post("/api/categories", recordHandler.AddCategory)

		// Backup
		r.Get("/api/backup/state", backupHandler.State)
		r.Post("/api/backup/export", backupHandler.Export)
		r.Post("/api/backup/import", backupHandler.Import)
	})

	return &Handler{Router: r}
}
