package vision

import (
	"image"
	"math"

	"pcb-inspector/internal/domain/entity"
)

// TargetSize вычисляет размер после ограничения стороной maxSide.
// Пропорции сохраняются, размеры округляются до ближайшего пикселя.
func TargetSize(width, height, maxSide int) (w, h int, scale float64) {
	if maxSide <= 0 || (width <= maxSide && height <= maxSide) {
		return width, height, 1
	}

	scale = math.Min(float64(maxSide)/float64(width), float64(maxSide)/float64(height))
	w = max(1, int(math.Round(float64(width)*scale)))
	h = max(1, int(math.Round(float64(height)*scale)))
	return w, h, scale
}

// labelPlacement положение подписи дефекта
type labelPlacement struct {
	Background image.Rectangle // залитый прямоугольник под текстом
	Baseline   image.Point     // начало базовой линии текста
}

const labelPadding = 10

// placeLabel кладёт подпись над верхней гранью рамки, а если сверху нет
// места, то внутрь рамки под верхнюю грань.
func placeLabel(box entity.BBox, textW, textH int) labelPlacement {
	x1, y1 := box[0], box[1]
	if y1-textH-labelPadding >= 0 {
		return labelPlacement{
			Background: image.Rect(x1, y1-textH-labelPadding, x1+textW, y1),
			Baseline:   image.Pt(x1, y1-labelPadding/2),
		}
	}
	return labelPlacement{
		Background: image.Rect(x1, y1, x1+textW, y1+textH+labelPadding),
		Baseline:   image.Pt(x1, y1+textH+labelPadding/2),
	}
}
