package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func plane(w, h int, fn func(x, y int) uint8) []uint8 {
	p := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p[y*w+x] = fn(x, y)
		}
	}
	return p
}

func spread(p []uint8) int {
	lo, hi := 255, 0
	for _, v := range p {
		lo = min(lo, int(v))
		hi = max(hi, int(v))
	}
	return hi - lo
}

func TestEqualizeAdaptive_UniformStaysUniform(t *testing.T) {
	src := plane(64, 64, func(int, int) uint8 { return 128 })
	dst := equalizeAdaptive(src, 64, 64, 2.0, 8)

	for i := range dst {
		require.Equal(t, dst[0], dst[i])
	}
	require.Equal(t, uint8(135), dst[0])
}

func TestEqualizeAdaptive_StretchesLowContrast(t *testing.T) {
	src := plane(128, 96, func(x, y int) uint8 { return uint8(100 + (x*7+y*3)%16) })
	before := append([]uint8(nil), src...)

	dst := equalizeAdaptive(src, 128, 96, 2.0, 8)

	require.Equal(t, before, src, "source plane must not change")
	require.Greater(t, spread(dst), spread(src))
}

func TestEqualizeAdaptive_Deterministic(t *testing.T) {
	src := plane(100, 70, func(x, y int) uint8 { return uint8((x * y) % 256) })
	require.Equal(t, equalizeAdaptive(src, 100, 70, 2.0, 8), equalizeAdaptive(src, 100, 70, 2.0, 8))
}

func TestEqualizeAdaptive_TinyPlanes(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {3, 2}, {7, 9}, {9, 1}} {
		src := plane(sz[0], sz[1], func(x, y int) uint8 { return uint8(x*40 + y) })
		dst := equalizeAdaptive(src, sz[0], sz[1], 2.0, 8)
		require.Len(t, dst, len(src))
	}
	require.Empty(t, equalizeAdaptive(nil, 0, 0, 2.0, 8))
}

func TestEqualizeAdaptive_NarrowPlaneUsesFullGrid(t *testing.T) {
	// 10x4 при сетке 8x8: тайлы 2x1, плоскость дополнена отражением до 16x8.
	src := plane(10, 4, func(x, y int) uint8 { return uint8(x*25 + y*3) })
	dst := equalizeAdaptive(src, 10, 4, 2.0, 8)

	want := []uint8{128, 255, 192, 255, 192, 255, 192, 255, 192, 255}
	for y := 0; y < 4; y++ {
		require.Equal(t, want, dst[y*10:y*10+10], "row %d", y)
	}
}

func TestReflect101(t *testing.T) {
	var got []int
	for i := 0; i < 9; i++ {
		got = append(got, reflect101(i, 4))
	}
	require.Equal(t, []int{0, 1, 2, 3, 2, 1, 0, 1, 2}, got)
	require.Equal(t, 0, reflect101(5, 1))
}

func TestClipHistogram_ConservesCount(t *testing.T) {
	var hist [histBins]int
	hist[10] = 900
	hist[200] = 124
	clipHistogram(&hist, 2.0, 1024)

	total := 0
	for _, c := range hist {
		require.LessOrEqual(t, c, 8+4)
		total += c
	}
	require.Equal(t, 1024, total)
}

func TestBuildLUT_Monotonic(t *testing.T) {
	var hist [histBins]int
	for i := range hist {
		hist[i] = i % 5
	}
	area := 0
	for _, c := range hist {
		area += c
	}

	var lut [histBins]uint8
	buildLUT(&hist, area, &lut)
	for i := 1; i < histBins; i++ {
		require.GreaterOrEqual(t, lut[i], lut[i-1])
	}
	require.Equal(t, uint8(255), lut[histBins-1])
}
