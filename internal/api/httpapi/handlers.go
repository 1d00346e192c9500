package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/infrastructure/vision"
)

const uploadField = "file"

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context(), s.log)

	resp, err := s.processUpload(w, r)
	s.deps.Inspections.Track(app.SourceHTTP, err)
	if err != nil {
		status, message := errorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("upload failed", "error", err)
		} else {
			log.Info("upload rejected", "kind", apperr.KindOf(err), "error", err)
		}
		writeError(w, log, status, message)
		return
	}

	log.Info("upload processed",
		"defects", resp.Summary.TotalDefects,
		"types", resp.Summary.DefectTypes,
	)
	writeJSON(w, log, http.StatusOK, resp)
}

// processUpload проверяет загрузку, складывает её во временный файл и
// прогоняет через конвейер. Временный файл удаляется на любом пути выхода.
func (s *Server) processUpload(w http.ResponseWriter, r *http.Request) (*UploadResponse, error) {
	const op = "upload"
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.deps.Policy.MaxFileSize+multipartOverhead)

	part, err := findFilePart(r)
	if err != nil {
		return nil, tooLarge(err, s.deps.Policy)
	}
	defer part.Close()

	if err := s.deps.Policy.Validate(part.FileName(), 0); err != nil {
		return nil, err
	}

	spooled, err := s.deps.Spool.Spool(part, part.FileName(), s.deps.Policy.MaxFileSize)
	if err != nil {
		return nil, tooLarge(err, s.deps.Policy)
	}
	defer func() {
		if err := spooled.Remove(); err != nil {
			loggerFrom(ctx, s.log).Warn("failed to remove temp file", "path", spooled.Path(), "error", err)
		}
	}()

	if err := s.deps.Policy.CheckSize(spooled.Size()); err != nil {
		return nil, err
	}

	data, err := spooled.ReadAll()
	if err != nil {
		return nil, err
	}

	out, err := s.deps.Inspections.Inspect(ctx, data)
	if err != nil {
		return nil, err
	}

	enc, err := s.deps.Inspections.Encode(out)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, "encode images", err)
	}

	return &UploadResponse{
		Success:       true,
		OriginalImage: vision.DataURI(enc.OriginalJPEG),
		ResultImage:   vision.DataURI(enc.AnnotatedJPEG),
		Detections:    out.Result.Defects,
		Summary:       out.Result.Summary,
	}, nil
}

// findFilePart ищет в multipart-теле часть с файлом, не буферизуя остальное.
func findFilePart(r *http.Request) (*multipart.Part, error) {
	const op = "upload"

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, op, msgNoFilePart, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperr.New(apperr.KindValidation, op, msgNoFilePart)
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, op, "malformed multipart body", err)
		}
		if part.FormName() == uploadField {
			return part, nil
		}
		part.Close()
	}
}

// tooLarge превращает срабатывание MaxBytesReader в ошибку валидации.
func tooLarge(err error, policy app.UploadPolicy) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return policy.CheckSize(policy.MaxFileSize + 1)
	}
	return err
}

// errorStatus переводит вид ошибки в код ответа и текст для клиента.
func errorStatus(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest, apperr.Message(err)
	case apperr.KindDecode:
		return http.StatusBadRequest, msgDecodeFailed
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, loggerFrom(r.Context(), s.log), http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: s.deps.Version,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, loggerFrom(r.Context(), s.log), http.StatusOK, modelsResponse{
		Models: s.deps.Inspections.Models(),
	})
}
