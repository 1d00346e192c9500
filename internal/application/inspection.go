package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/logger"
)

// Источники запросов для метрик
const (
	SourceHTTP     = "http"
	SourceTelegram = "telegram"
	SourceCLI      = "cli"
)

// Исходы запросов для метрик
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeDecode     = "decode_error"
	OutcomeInternal   = "internal_error"
)

type InspectionService struct {
	processor port.ImageProcessor
	detector  port.DefectDetector
	describer port.DefectDescriber
	metrics   port.InspectionMetrics
	log       *slog.Logger
}

// InspectionOutput содержит результат поиска дефектов и оба изображения.
type InspectionOutput struct {
	Result    *entity.InspectionResult
	Original  image.Image
	Annotated image.Image
}

// EncodedOutput изображения результата в JPEG.
type EncodedOutput struct {
	OriginalJPEG  []byte
	AnnotatedJPEG []byte
}

// NewInspectionService создаёт сервис, который управляет проверкой дефектов.
// metrics и log могут быть nil.
func NewInspectionService(
	processor port.ImageProcessor,
	detector port.DefectDetector,
	describer port.DefectDescriber,
	metrics port.InspectionMetrics,
	log *slog.Logger,
) *InspectionService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &InspectionService{
		processor: processor,
		detector:  detector,
		describer: describer,
		metrics:   metrics,
		log:       log,
	}
}

// Inspect прогоняет изображение через конвейер: декодирование, нормализация,
// поиск дефектов на нормализованном изображении и разметка исходного.
// Рамки в результате приведены к координатам исходного изображения.
func (s *InspectionService) Inspect(ctx context.Context, data []byte) (*InspectionOutput, error) {
	if s.processor == nil || s.detector == nil {
		return nil, apperr.New(apperr.KindInternal, "inspect", "pipeline is not configured")
	}

	var original image.Image
	err := s.stage("decode", func() error {
		var err error
		original, err = s.processor.Decode(data)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "inspect", "failed to decode image", err)
	}

	var normalized *entity.Preprocessed
	err = s.stage("preprocess", func() error {
		var err error
		normalized, err = s.processor.Preprocess(original)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "inspect", "preprocess image", err)
	}

	var found []entity.Defect
	err = s.stage("detect", func() error {
		var err error
		found, err = s.detector.Detect(ctx, normalized.Image)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "inspect", "detect defects", err)
	}

	defects := toOriginal(found, normalized)

	var annotated image.Image
	err = s.stage("annotate", func() error {
		var err error
		annotated, err = s.processor.Annotate(original, defects)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "inspect", "annotate image", err)
	}

	for _, d := range defects {
		s.metrics.ObserveDefect(d.Type)
	}

	result := entity.NewInspectionResult(normalized.OriginalWidth, normalized.OriginalHeight, defects)
	s.log.Debug("inspection finished",
		"width", result.ImageWidth,
		"height", result.ImageHeight,
		"scale", normalized.Scale,
		"defects", result.Summary.TotalDefects,
	)

	return &InspectionOutput{Result: result, Original: original, Annotated: annotated}, nil
}

// Encode сжимает оба изображения в JPEG.
func (s *InspectionService) Encode(out *InspectionOutput) (*EncodedOutput, error) {
	if out == nil {
		return nil, apperr.New(apperr.KindInternal, "encode", "inspection output is nil")
	}

	var enc EncodedOutput
	err := s.stage("encode", func() error {
		var err error
		if enc.OriginalJPEG, err = s.processor.EncodeJPEG(out.Original); err != nil {
			return fmt.Errorf("original: %w", err)
		}
		if enc.AnnotatedJPEG, err = s.processor.EncodeJPEG(out.Annotated); err != nil {
			return fmt.Errorf("annotated: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode", "encode images", err)
	}
	return &enc, nil
}

// Describe строит текстовый отчёт по результату.
func (s *InspectionService) Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Report, error) {
	if s.describer == nil {
		return nil, errors.New("describer is not configured")
	}
	return s.describer.Describe(ctx, result)
}

// Models возвращает метаданные моделей источника дефектов.
func (s *InspectionService) Models() []entity.ModelInfo {
	if s.detector == nil {
		return []entity.ModelInfo{}
	}
	return s.detector.Models()
}

// Track учитывает исход запроса из указанного источника.
func (s *InspectionService) Track(source string, err error) {
	s.metrics.ObserveUpload(source, Outcome(err))
}

// Outcome переводит ошибку в метку исхода.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return OutcomeValidation
	case apperr.KindDecode:
		return OutcomeDecode
	default:
		return OutcomeInternal
	}
}

func (s *InspectionService) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveStage(name, time.Since(start))
	return err
}

// toOriginal переводит рамки из нормализованных координат в исходные.
func toOriginal(defects []entity.Defect, p *entity.Preprocessed) []entity.Defect {
	out := make([]entity.Defect, 0, len(defects))
	for _, d := range defects {
		if p.Scale > 0 && p.Scale != 1 {
			d = d.Rescaled(1 / p.Scale)
		}
		d.BBox = d.BBox.Clamp(p.OriginalWidth, p.OriginalHeight)
		out = append(out, d)
	}
	return out
}

type noopMetrics struct{}

func (noopMetrics) ObserveUpload(string, string) {}

func (noopMetrics) ObserveDefect(string) {}

func (noopMetrics) ObserveStage(string, time.Duration) {}
