package vision

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/internal/domain/entity"
)

func TestTargetSize_NoOp(t *testing.T) {
	for _, sz := range [][2]int{{800, 600}, {1024, 1024}, {1, 1}, {1024, 10}} {
		w, h, scale := TargetSize(sz[0], sz[1], 1024)
		require.Equal(t, sz[0], w)
		require.Equal(t, sz[1], h)
		require.Equal(t, 1.0, scale)
	}
}

func TestTargetSize_Downscale(t *testing.T) {
	w, h, scale := TargetSize(2000, 1000, 1024)
	require.Equal(t, 1024, w)
	require.Equal(t, 512, h)
	require.InDelta(t, 0.512, scale, 1e-12)
}

func TestTargetSize_Invariants(t *testing.T) {
	sizes := [][2]int{{1025, 1025}, {1500, 900}, {3000, 200}, {640, 2048}, {4032, 3024}, {5000, 3}}
	for _, sz := range sizes {
		w, h, _ := TargetSize(sz[0], sz[1], 1024)
		require.Equal(t, 1024, max(w, h), "%v", sz)

		// пропорции сохраняются с точностью до пикселя
		if sz[0] >= sz[1] {
			want := float64(w) * float64(sz[1]) / float64(sz[0])
			require.LessOrEqual(t, math.Abs(want-float64(h)), 1.0, "%v", sz)
		} else {
			want := float64(h) * float64(sz[0]) / float64(sz[1])
			require.LessOrEqual(t, math.Abs(want-float64(w)), 1.0, "%v", sz)
		}
		require.GreaterOrEqual(t, min(w, h), 1)
	}
}

func TestPlaceLabel(t *testing.T) {
	above := placeLabel(entity.BBox{160, 180, 280, 270}, 133, 11)
	require.Equal(t, image.Rect(160, 159, 293, 180), above.Background)
	require.Equal(t, image.Pt(160, 175), above.Baseline)

	inside := placeLabel(entity.BBox{10, 5, 80, 60}, 70, 11)
	require.Equal(t, image.Rect(10, 5, 80, 26), inside.Background)
	require.Equal(t, image.Pt(10, 21), inside.Baseline)
}
