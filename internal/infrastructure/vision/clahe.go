package vision

import "math"

const histBins = 256

// equalizeAdaptive применяет CLAHE к 8-битной плоскости размером width x height.
//
// Плоскость режется на grid x grid тайлов одинакового размера, гистограмма
// каждого тайла ограничивается порогом clipLimit*area/256, излишек равномерно
// перераспределяется, и значение пикселя билинейно интерполируется между
// таблицами четырёх ближайших тайлов. Если сторона не делится на grid,
// плоскость дополняется справа и снизу отражением (BORDER_REFLECT_101).
func equalizeAdaptive(src []uint8, width, height int, clipLimit float64, grid int) []uint8 {
	dst := make([]uint8, len(src))
	if width <= 0 || height <= 0 {
		return dst
	}
	if grid < 1 {
		grid = 1
	}

	tileW := ceilDiv(width, grid)
	tileH := ceilDiv(height, grid)
	area := tileW * tileH

	// Индексы исходных столбцов для дополненной плоскости.
	cols := make([]int, tileW*grid)
	for x := range cols {
		cols[x] = reflect101(x, width)
	}

	luts := make([][histBins]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			var hist [histBins]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				sy := reflect101(y, height)
				row := src[sy*width : sy*width+width]
				for _, sx := range cols[tx*tileW : (tx+1)*tileW] {
					hist[row[sx]]++
				}
			}

			clipHistogram(&hist, clipLimit, area)
			buildLUT(&hist, area, &luts[ty*grid+tx])
		}
	}

	// Для каждого столбца заранее считаем соседние тайлы и веса.
	xs := make([]tileWeight, width)
	for x := range xs {
		xs[x] = weightFor(x, tileW, grid)
	}

	for y := 0; y < height; y++ {
		wy := weightFor(y, tileH, grid)
		top := luts[wy.lo*grid : wy.lo*grid+grid]
		bottom := luts[wy.hi*grid : wy.hi*grid+grid]

		row := src[y*width : y*width+width]
		out := dst[y*width : y*width+width]
		for x, v := range row {
			wx := xs[x]
			t := float64(top[wx.lo][v])*(1-wx.frac) + float64(top[wx.hi][v])*wx.frac
			b := float64(bottom[wx.lo][v])*(1-wx.frac) + float64(bottom[wx.hi][v])*wx.frac
			out[x] = clampUint8(t*(1-wy.frac) + b*wy.frac)
		}
	}

	return dst
}

type tileWeight struct {
	lo, hi int
	frac   float64 // вес тайла hi
}

// weightFor считает координату пикселя относительно центров тайлов.
func weightFor(pos, tileSize, tiles int) tileWeight {
	f := float64(pos)/float64(tileSize) - 0.5
	lo := int(math.Floor(f))
	w := tileWeight{lo: lo, hi: lo + 1, frac: f - float64(lo)}
	if w.lo < 0 {
		w.lo = 0
	}
	if w.hi > tiles-1 {
		w.hi = tiles - 1
	}
	return w
}

func clipHistogram(hist *[histBins]int, clipLimit float64, area int) {
	if clipLimit <= 0 {
		return
	}
	limit := max(int(clipLimit*float64(area)/histBins), 1)

	excess := 0
	for i, c := range hist {
		if c > limit {
			excess += c - limit
			hist[i] = limit
		}
	}

	batch := excess / histBins
	residual := excess - batch*histBins
	for i := range hist {
		hist[i] += batch
	}
	if residual > 0 {
		step := max(histBins/residual, 1)
		for i := 0; i < histBins && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

func buildLUT(hist *[histBins]int, area int, lut *[histBins]uint8) {
	scale := float64(histBins-1) / float64(area)
	sum := 0
	for i, c := range hist {
		sum += c
		lut[i] = clampUint8(float64(sum) * scale)
	}
}

// reflect101 отражает индекс за границей без повтора крайнего элемента:
// для n = 4 последовательность 0 1 2 3 2 1 0 1 ...
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2*n - 2
	i %= period
	if i >= n {
		i = period - i
	}
	return i
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
