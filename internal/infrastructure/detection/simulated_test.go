package detection

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/entity"
)

func TestSimulatedDetector_Detect800x600(t *testing.T) {
	d := NewSimulatedDetector()

	defects, err := d.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 800, 600)))
	require.NoError(t, err)
	require.Len(t, defects, 3)

	require.Equal(t, entity.DefectSolderBridge, defects[0].Type)
	require.Equal(t, entity.BBox{160, 180, 280, 270}, defects[0].BBox)
	require.Equal(t, entity.DefectMissingComponent, defects[1].Type)
	require.Equal(t, entity.BBox{480, 120, 600, 210}, defects[1].BBox)
	require.Equal(t, entity.DefectColdSolder, defects[2].Type)
	require.Equal(t, entity.BBox{80, 420, 200, 510}, defects[2].BBox)

	s := entity.NewSummary(defects)
	require.Equal(t, 3, s.TotalDefects)
	require.ElementsMatch(t, []string{"solder_bridge", "missing_component", "cold_solder"}, s.DefectTypes)
	require.InDelta(t, 0.8667, s.AvgConfidence, 0.00005)
}

func TestSimulatedDetector_BoxesInsideImage(t *testing.T) {
	d := NewSimulatedDetector()

	for _, sz := range [][2]int{{1, 1}, {37, 1200}, {1024, 512}} {
		defects, err := d.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, sz[0], sz[1])))
		require.NoError(t, err)
		for _, def := range defects {
			require.Equal(t, def.BBox, def.BBox.Clamp(sz[0], sz[1]))
			require.GreaterOrEqual(t, def.Confidence, 0.0)
			require.LessOrEqual(t, def.Confidence, 1.0)
		}
	}
}

func TestSimulatedDetector_Errors(t *testing.T) {
	d := NewSimulatedDetector()

	_, err := d.Detect(context.Background(), nil)
	require.True(t, apperr.IsKind(err, apperr.KindDecode))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Detect(ctx, image.NewRGBA(image.Rect(0, 0, 10, 10)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedDetector_Models(t *testing.T) {
	models := NewSimulatedDetector().Models()
	require.Len(t, models, 1)
	require.Equal(t, "yolov8_pcb", models[0].ID)
	require.Equal(t, entity.KnownDefectTypes, models[0].SupportedDefects)

	models[0].SupportedDefects[0] = "mutated"
	require.Equal(t, entity.DefectSolderBridge, entity.KnownDefectTypes[0])
}
