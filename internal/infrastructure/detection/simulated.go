// Package detection содержит источники дефектов. SimulatedDetector не делает
// инференса: записи зависят только от размеров изображения и служат
// заглушкой до подключения настоящей модели.
package detection

import (
	"context"
	"image"

	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

// placement задаёт дефект долями ширины и высоты изображения.
type placement struct {
	typ         entity.DefectType
	confidence  float64
	box         [4]float64 // x1, y1, x2, y2 в долях
	description string
}

var simulatedPlacements = []placement{
	{
		typ:         entity.DefectSolderBridge,
		confidence:  0.89,
		box:         [4]float64{0.2, 0.3, 0.35, 0.45},
		description: "Solder bridge detected between components",
	},
	{
		typ:         entity.DefectMissingComponent,
		confidence:  0.95,
		box:         [4]float64{0.6, 0.2, 0.75, 0.35},
		description: "Component missing at the expected position",
	},
	{
		typ:         entity.DefectColdSolder,
		confidence:  0.76,
		box:         [4]float64{0.1, 0.7, 0.25, 0.85},
		description: "Cold solder joint detected, poor connection",
	},
}

// SimulatedDetector детерминированный источник дефектов.
type SimulatedDetector struct{}

// NewSimulatedDetector создаёт заглушку детектора.
func NewSimulatedDetector() *SimulatedDetector {
	return &SimulatedDetector{}
}

// Detect возвращает три фиксированных дефекта в координатах img.
func (d *SimulatedDetector) Detect(ctx context.Context, img image.Image) ([]entity.Defect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, apperr.New(apperr.KindDecode, "detect", "image is empty")
	}

	return simulate(img.Bounds().Dx(), img.Bounds().Dy()), nil
}

func simulate(width, height int) []entity.Defect {
	w, h := float64(width), float64(height)
	defects := make([]entity.Defect, 0, len(simulatedPlacements))
	for _, p := range simulatedPlacements {
		defects = append(defects, entity.Defect{
			Type:       p.typ,
			Confidence: p.confidence,
			BBox: entity.BBox{
				int(w * p.box[0]),
				int(h * p.box[1]),
				int(w * p.box[2]),
				int(h * p.box[3]),
			},
			Description: p.description,
		})
	}
	return defects
}

// Models возвращает статическое описание модели.
func (d *SimulatedDetector) Models() []entity.ModelInfo {
	return []entity.ModelInfo{
		{
			ID:               "yolov8_pcb",
			Name:             "YOLOv8 PCB Detector",
			Description:      "Model specialised in PCB defect detection",
			Accuracy:         0.89,
			SupportedDefects: append([]entity.DefectType(nil), entity.KnownDefectTypes...),
		},
	}
}

// Проверка реализации интерфейса
var _ port.DefectDetector = (*SimulatedDetector)(nil)
