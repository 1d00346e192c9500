package container

import (
	"log/slog"

	"pcb-inspector/config"
	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/detection"
	"pcb-inspector/internal/infrastructure/metrics"
	"pcb-inspector/internal/infrastructure/report"
	"pcb-inspector/internal/infrastructure/storage"
	"pcb-inspector/internal/infrastructure/vision"
)

// Сколько дефектов перечислять в текстовом отчёте
const reportMaxItems = 10

type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	Metrics           *metrics.Metrics
	UserService       *app.UserService
	InspectionService *app.InspectionService
	UploadPolicy      app.UploadPolicy
	Spool             port.UploadSpool
}

// New собирает зависимости приложения из конфигурации.
func New(cfg *config.Config, log *slog.Logger) (*Container, error) {
	spool, err := storage.NewFileSpool(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	return &Container{
		Config:            cfg,
		Logger:            log,
		Metrics:           m,
		UserService:       app.NewUserService(storage.NewMemoryUserRepository()),
		InspectionService: NewInspectionService(cfg, m, log),
		UploadPolicy:      NewUploadPolicy(cfg),
		Spool:             spool,
	}, nil
}

// NewInspectionService собирает конвейер проверки. metrics может быть nil.
func NewInspectionService(cfg *config.Config, m port.InspectionMetrics, log *slog.Logger) *app.InspectionService {
	processor := vision.NewProcessor(vision.Options{
		MaxSide:     cfg.MaxImageSide,
		ClipLimit:   cfg.CLAHEClipLimit,
		TileGrid:    cfg.CLAHETileGrid,
		JPEGQuality: cfg.JPEGQuality,
		MaxPixels:   cfg.MaxImagePixels,
	})

	return app.NewInspectionService(
		processor,
		detection.NewSimulatedDetector(),
		report.NewTextDescriber(reportMaxItems),
		m,
		log,
	)
}

// NewUploadPolicy правила приёма файлов из конфигурации.
func NewUploadPolicy(cfg *config.Config) app.UploadPolicy {
	return app.UploadPolicy{
		AllowedExtensions: cfg.AllowedExtensions,
		MaxFileSize:       cfg.MaxFileSize(),
	}
}
