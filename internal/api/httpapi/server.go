// Package httpapi HTTP-интерфейс сервиса проверки плат.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/logger"
)

const (
	serviceName = "PCB Defect Detection"

	// Запас на заголовки multipart сверх лимита файла
	multipartOverhead = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Deps зависимости сервера.
type Deps struct {
	Inspections *app.InspectionService
	Policy      app.UploadPolicy
	Spool       port.UploadSpool
	Metrics     http.Handler // может быть nil
	StaticDir   string       // пустая строка или отсутствующий каталог отключают статику
	Version     string
	Logger      *slog.Logger
}

type Server struct {
	deps    Deps
	log     *slog.Logger
	handler http.Handler
}

// NewServer собирает маршруты.
func NewServer(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{deps: deps, log: log}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/models", s.handleModels).Methods(http.MethodGet)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	if dir := deps.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet, http.MethodHead)
		} else {
			log.Warn("static directory is not available", "dir", dir)
		}
	}

	// CORS снаружи роутера, иначе mux отвечает на OPTIONS кодом 405
	s.handler = requestID(log)(accessLog(log)(cors(r)))
	return s
}

// Handler возвращает корневой обработчик.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает addr до отмены ctx, затем плавно останавливается.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
