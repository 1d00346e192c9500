package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

const msgNoDefects = "✅ No defects detected."

// TextDescriber строит текстовый отчёт без обращения к внешним сервисам.
type TextDescriber struct {
	// MaxItems ограничивает число перечисленных дефектов, 0 без ограничения
	MaxItems int
}

// NewTextDescriber создаёт описатель с ограничением на число строк.
func NewTextDescriber(maxItems int) *TextDescriber {
	return &TextDescriber{MaxItems: maxItems}
}

// Describe формирует отчёт по результату проверки.
func (d *TextDescriber) Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Report, error) {
	_ = ctx
	if result == nil {
		return nil, errors.New("inspection result is nil")
	}
	if !result.HasDefects {
		return &entity.Report{Text: msgNoDefects}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Defects found: %d\n", result.Summary.TotalDefects)
	fmt.Fprintf(&b, "Types: %s\n", strings.Join(result.Summary.DefectTypes, ", "))
	fmt.Fprintf(&b, "Average confidence: %.2f\n", result.Summary.AvgConfidence)

	for i, def := range result.Defects {
		if d.MaxItems > 0 && i == d.MaxItems {
			fmt.Fprintf(&b, "\n…and %d more", len(result.Defects)-i)
			break
		}
		fmt.Fprintf(&b, "\n%d. %s (%.2f) at [%d, %d, %d, %d]", i+1, def.Type, def.Confidence,
			def.BBox[0], def.BBox[1], def.BBox[2], def.BBox[3])
		if def.Description != "" {
			fmt.Fprintf(&b, ": %s", def.Description)
		}
	}

	return &entity.Report{Text: b.String()}, nil
}

// Проверка реализации интерфейса
var _ port.DefectDescriber = (*TextDescriber)(nil)
