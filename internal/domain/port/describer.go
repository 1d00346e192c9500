package port

import (
	"context"

	"pcb-inspector/internal/domain/entity"
)

// DefectDescriber интерфейс описателя дефектов
type DefectDescriber interface {
	// Describe генерирует текстовое описание найденных дефектов
	Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Report, error)
}
