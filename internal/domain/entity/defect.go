package entity

import "math"

// DefectType тег класса дефекта
type DefectType = string

const (
	DefectSolderBridge     DefectType = "solder_bridge"
	DefectMissingComponent DefectType = "missing_component"
	DefectColdSolder       DefectType = "cold_solder"
	DefectMisaligned       DefectType = "misaligned"
	DefectDamagedTrace     DefectType = "damaged_trace"
)

// KnownDefectTypes закрытый набор типов, известных палитре и метаданным модели
var KnownDefectTypes = []DefectType{
	DefectSolderBridge,
	DefectMissingComponent,
	DefectColdSolder,
	DefectMisaligned,
	DefectDamagedTrace,
}

// BBox рамка [x1, y1, x2, y2] в пикселях
type BBox [4]int

// Defect представляет одну запись о найденном дефекте
type Defect struct {
	Type        DefectType `json:"type"`        // класс дефекта
	Confidence  float64    `json:"confidence"`  // уверенность в [0,1]
	BBox        BBox       `json:"bbox"`        // рамка в координатах исходного изображения
	Description string     `json:"description"` // человекочитаемое описание
}

// Ordered упорядочивает углы так, что x1 <= x2 и y1 <= y2
func (b BBox) Ordered() BBox {
	if b[0] > b[2] {
		b[0], b[2] = b[2], b[0]
	}
	if b[1] > b[3] {
		b[1], b[3] = b[3], b[1]
	}
	return b
}

// Clamp упорядочивает углы и ограничивает их прямоугольником [0,width]x[0,height]
func (b BBox) Clamp(width, height int) BBox {
	b = b.Ordered()
	b[0] = clampInt(b[0], 0, width)
	b[2] = clampInt(b[2], 0, width)
	b[1] = clampInt(b[1], 0, height)
	b[3] = clampInt(b[3], 0, height)
	return b
}

// Scale умножает координаты на factor с округлением до ближайшего пикселя
func (b BBox) Scale(factor float64) BBox {
	var out BBox
	for i, v := range b {
		out[i] = int(math.Round(float64(v) * factor))
	}
	return out
}

// Rescaled возвращает копию дефекта с отмасштабированной рамкой
func (d Defect) Rescaled(factor float64) Defect {
	d.BBox = d.BBox.Scale(factor)
	return d
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
