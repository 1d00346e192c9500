package entity

import "image"

// Summary агрегат по списку дефектов.
type Summary struct {
	TotalDefects  int          `json:"total_defects"`
	DefectTypes   []DefectType `json:"defect_types"`
	AvgConfidence float64      `json:"avg_confidence"`
}

// NewSummary строит агрегат. Типы идут в порядке первого появления,
// средняя уверенность пустого списка равна 0.
func NewSummary(defects []Defect) Summary {
	s := Summary{
		TotalDefects: len(defects),
		DefectTypes:  make([]DefectType, 0, len(defects)),
	}
	if len(defects) == 0 {
		return s
	}

	seen := make(map[DefectType]struct{}, len(defects))
	var total float64
	for _, d := range defects {
		total += d.Confidence
		if _, ok := seen[d.Type]; ok {
			continue
		}
		seen[d.Type] = struct{}{}
		s.DefectTypes = append(s.DefectTypes, d.Type)
	}
	s.AvgConfidence = total / float64(len(defects))
	return s
}

// Preprocessed нормализованное изображение и коэффициент масштабирования.
type Preprocessed struct {
	Image          image.Image
	Scale          float64 // нормализованный размер = исходный * Scale
	OriginalWidth  int
	OriginalHeight int
}

// InspectionResult хранит итог анализа изображения.
type InspectionResult struct {
	ImageWidth  int      // ширина исходного изображения
	ImageHeight int      // высота исходного изображения
	Defects     []Defect // дефекты в координатах исходного изображения
	Summary     Summary
	HasDefects  bool
}

// NewInspectionResult заполняет производные поля
func NewInspectionResult(width, height int, defects []Defect) *InspectionResult {
	return &InspectionResult{
		ImageWidth:  width,
		ImageHeight: height,
		Defects:     defects,
		Summary:     NewSummary(defects),
		HasDefects:  len(defects) > 0,
	}
}

// Report текстовое описание результата проверки.
type Report struct {
	Text string
}
