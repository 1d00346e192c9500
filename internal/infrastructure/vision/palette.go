package vision

import (
	"fmt"
	"image/color"

	"pcb-inspector/internal/domain/entity"
)

// Палитра в RGB: красный, синий, оранжевый, жёлтый, фиолетовый.
var defectPalette = map[entity.DefectType]color.RGBA{
	entity.DefectSolderBridge:     {R: 255, A: 255},
	entity.DefectMissingComponent: {B: 255, A: 255},
	entity.DefectColdSolder:       {R: 255, G: 165, A: 255},
	entity.DefectMisaligned:       {R: 255, G: 255, A: 255},
	entity.DefectDamagedTrace:     {R: 128, B: 128, A: 255},
}

// DefaultDefectColor цвет для неизвестных типов дефектов.
var DefaultDefectColor = color.RGBA{G: 255, A: 255}

var labelTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// DefectColor возвращает цвет рамки для типа дефекта
func DefectColor(t entity.DefectType) color.RGBA {
	if c, ok := defectPalette[t]; ok {
		return c
	}
	return DefaultDefectColor
}

func labelText(d entity.Defect) string {
	return fmt.Sprintf("%s: %.2f", d.Type, d.Confidence)
}
