package vision

import (
	"image"
	"math"
)

// labPlanes 8-битное L*a*b* в соглашении OpenCV: L масштабирован в 0..255,
// к a и b прибавлено 128. Альфа-канал переносится без изменений.
type labPlanes struct {
	Width, Height int
	L, A, B       []uint8
	Alpha         []uint8
}

// Белая точка D65 и пороги CIE.
const (
	whiteX = 0.950456
	whiteZ = 1.088754

	labEpsilon = 0.008856
	labKappa   = 903.3
)

var srgbToLinear = func() (lut [256]float64) {
	for i := range lut {
		v := float64(i) / 255
		if v <= 0.04045 {
			lut[i] = v / 12.92
		} else {
			lut[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
	return lut
}()

func linearToSRGB(v float64) uint8 {
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return clampUint8(v * 255)
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116
}

func labFInv(t float64) float64 {
	if t > 0.206893 {
		return t * t * t
	}
	return (t - 16.0/116) / 7.787
}

// splitLab переводит изображение в плоскости L, a, b.
func splitLab(img *image.NRGBA) *labPlanes {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h
	p := &labPlanes{
		Width:  w,
		Height: h,
		L:      make([]uint8, n),
		A:      make([]uint8, n),
		B:      make([]uint8, n),
		Alpha:  make([]uint8, n),
	}

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			r, g, bl := srgbToLinear[px[0]], srgbToLinear[px[1]], srgbToLinear[px[2]]

			fx := labF((0.412453*r + 0.357580*g + 0.180423*bl) / whiteX)
			yy := 0.212671*r + 0.715160*g + 0.072169*bl
			fy := labF(yy)
			fz := labF((0.019334*r + 0.119193*g + 0.950227*bl) / whiteZ)

			var l float64
			if yy > labEpsilon {
				l = 116*fy - 16
			} else {
				l = labKappa * yy
			}

			i := y*w + x
			p.L[i] = clampUint8(l * 255 / 100)
			p.A[i] = clampUint8(500*(fx-fy) + 128)
			p.B[i] = clampUint8(200*(fy-fz) + 128)
			p.Alpha[i] = px[3]
		}
	}
	return p
}

// merge собирает плоскости обратно в NRGBA.
func (p *labPlanes) merge() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i := range p.L {
		l := float64(p.L[i]) * 100 / 255
		a := float64(p.A[i]) - 128
		bb := float64(p.B[i]) - 128

		var yy, fy float64
		if l <= labKappa*labEpsilon {
			yy = l / labKappa
			fy = 7.787*yy + 16.0/116
		} else {
			fy = (l + 16) / 116
			yy = fy * fy * fy
		}
		x := labFInv(fy+a/500) * whiteX
		z := labFInv(fy-bb/200) * whiteZ

		r := 3.240479*x - 1.537150*yy - 0.498535*z
		g := -0.969256*x + 1.875991*yy + 0.041556*z
		bl := 0.055648*x - 0.204043*yy + 1.057311*z

		px := out.Pix[i*4 : i*4+4]
		px[0] = linearToSRGB(r)
		px[1] = linearToSRGB(g)
		px[2] = linearToSRGB(bl)
		px[3] = p.Alpha[i]
	}
	return out
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
