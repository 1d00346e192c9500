package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/internal/domain/entity"
)

func TestTextDescriber_NoDefects(t *testing.T) {
	r, err := NewTextDescriber(0).Describe(context.Background(), entity.NewInspectionResult(800, 600, nil))
	require.NoError(t, err)
	require.Equal(t, msgNoDefects, r.Text)
}

func TestTextDescriber_ListsDefects(t *testing.T) {
	result := entity.NewInspectionResult(800, 600, []entity.Defect{
		{Type: entity.DefectSolderBridge, Confidence: 0.89, BBox: entity.BBox{160, 180, 280, 270}, Description: "bridge"},
		{Type: entity.DefectColdSolder, Confidence: 0.75, BBox: entity.BBox{80, 420, 200, 510}},
	})

	r, err := NewTextDescriber(0).Describe(context.Background(), result)
	require.NoError(t, err)
	require.Contains(t, r.Text, "Defects found: 2")
	require.Contains(t, r.Text, "Types: solder_bridge, cold_solder")
	require.Contains(t, r.Text, "Average confidence: 0.82")
	require.Contains(t, r.Text, "1. solder_bridge (0.89) at [160, 180, 280, 270]: bridge")
	require.Contains(t, r.Text, "2. cold_solder (0.75) at [80, 420, 200, 510]")
}

func TestTextDescriber_MaxItems(t *testing.T) {
	defects := make([]entity.Defect, 5)
	for i := range defects {
		defects[i] = entity.Defect{Type: entity.DefectMisaligned, Confidence: 0.5}
	}

	r, err := NewTextDescriber(2).Describe(context.Background(), entity.NewInspectionResult(10, 10, defects))
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(r.Text, "misaligned (0.50)"))
	require.Contains(t, r.Text, "and 3 more")
}

func TestTextDescriber_NilResult(t *testing.T) {
	_, err := NewTextDescriber(0).Describe(context.Background(), nil)
	require.Error(t, err)
}
