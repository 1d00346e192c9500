package port

import (
	"context"
	"image"

	"pcb-inspector/internal/domain/entity"
)

// DefectDetector интерфейс источника дефектов
type DefectDetector interface {
	// Detect возвращает дефекты в координатах переданного (нормализованного) изображения
	Detect(ctx context.Context, img image.Image) ([]entity.Defect, error)

	// Models возвращает описание доступных моделей
	Models() []entity.ModelInfo
}
