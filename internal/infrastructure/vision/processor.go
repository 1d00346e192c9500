//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

const strokeWidth = 2

// Processor конвейер на чистом Go, используется в сборке без тега gocv.
type Processor struct {
	opts Options
	face font.Face
}

// NewProcessor создаёт конвейер с указанными параметрами.
func NewProcessor(opts Options) *Processor {
	return &Processor{
		opts: opts.withDefaults(),
		face: basicfont.Face7x13,
	}
}

// Decode декодирует байты файла.
func (p *Processor) Decode(data []byte) (image.Image, error) {
	return decodeImage(data, p.opts.MaxPixels)
}

// EncodeJPEG сжимает изображение в JPEG.
func (p *Processor) EncodeJPEG(img image.Image) ([]byte, error) {
	return encodeJPEG(img, p.opts.JPEGQuality)
}

// Preprocess ограничивает размер и применяет CLAHE к яркости в L*a*b*.
func (p *Processor) Preprocess(img image.Image) (*entity.Preprocessed, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, apperr.New(apperr.KindDecode, "preprocess", "image is empty")
	}

	bounds := img.Bounds()
	w, h, scale := TargetSize(bounds.Dx(), bounds.Dy(), p.opts.MaxSide)

	// Resize и Clone всегда возвращают новый буфер, вход не изменяется.
	var base *image.NRGBA
	if scale < 1 {
		base = imaging.Resize(img, w, h, imaging.Linear)
	} else {
		base = imaging.Clone(img)
	}

	planes := splitLab(base)
	enhanceLuminance(planes, p.opts.ClipLimit, p.opts.TileGrid)

	return &entity.Preprocessed{
		Image:          planes.merge(),
		Scale:          scale,
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
	}, nil
}

// enhanceLuminance меняет только плоскость L.
func enhanceLuminance(planes *labPlanes, clipLimit float64, grid int) {
	planes.L = equalizeAdaptive(planes.L, planes.Width, planes.Height, clipLimit, grid)
}

// Annotate рисует рамки и подписи на копии изображения. Координаты рамок
// берутся относительно левого верхнего угла изображения, всё, что выходит за
// границы, обрезается.
func (p *Processor) Annotate(img image.Image, defects []entity.Defect) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, apperr.New(apperr.KindDecode, "annotate", "image is empty")
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	for _, d := range defects {
		p.drawDefect(dst, bounds.Min, d)
	}

	return dst, nil
}

func (p *Processor) drawDefect(dst *image.RGBA, origin image.Point, d entity.Defect) {
	col := DefectColor(d.Type)
	box := d.BBox.Ordered()

	// x2, y2 включаются в рамку.
	outline := image.Rect(box[0], box[1], box[2]+1, box[3]+1).Add(origin)
	strokeRect(dst, outline, col, strokeWidth)

	text := labelText(d)
	textW := font.MeasureString(p.face, text).Ceil()
	textH := p.face.Metrics().Ascent.Ceil()
	label := placeLabel(box, textW, textH)
	fillRect(dst, label.Background.Add(origin), col)

	// Второй проход со сдвигом на пиксель даёт жирное начертание.
	for dx := 0; dx < 2; dx++ {
		dot := label.Baseline.Add(origin).Add(image.Pt(dx, 0))
		drawer := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(labelTextColor),
			Face: p.face,
			Dot:  fixed.P(dot.X, dot.Y),
		}
		drawer.DrawString(text)
	}
}

func strokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, width int) {
	if r.Empty() {
		return
	}
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), col)
}

func fillRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// Проверка реализации интерфейса
var _ port.ImageProcessor = (*Processor)(nil)
