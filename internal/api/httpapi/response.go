package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pcb-inspector/internal/domain/entity"
)

const (
	msgNoFilePart    = "no file part in the request"
	msgDecodeFailed  = "invalid image file: could not decode"
	msgInternalError = "internal error while processing image"
)

// UploadResponse тело успешного ответа /api/upload.
type UploadResponse struct {
	Success       bool            `json:"success"`
	OriginalImage string          `json:"original_image"`
	ResultImage   string          `json:"result_image"`
	Detections    []entity.Defect `json:"detections"`
	Summary       entity.Summary  `json:"summary"`
}

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type modelsResponse struct {
	Models []entity.ModelInfo `json:"models"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	writeJSON(w, log, status, ErrorResponse{Error: message})
}
