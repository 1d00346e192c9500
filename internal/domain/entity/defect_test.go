package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBBoxClamp(t *testing.T) {
	b := BBox{120, -5, -10, 50}
	require.Equal(t, BBox{0, 0, 100, 40}, b.Clamp(100, 40))
}

func TestBBoxScale(t *testing.T) {
	b := BBox{204, 153, 358, 230}
	require.Equal(t, BBox{398, 299, 699, 449}, b.Scale(1/0.512))
}

func TestDefectRescaledDoesNotMutate(t *testing.T) {
	d := Defect{Type: DefectColdSolder, Confidence: 0.76, BBox: BBox{10, 10, 20, 20}}
	scaled := d.Rescaled(2)
	require.Equal(t, BBox{10, 10, 20, 20}, d.BBox)
	require.Equal(t, BBox{20, 20, 40, 40}, scaled.BBox)
}
