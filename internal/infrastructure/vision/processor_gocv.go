//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

const (
	strokeWidth    = 2
	labelFont      = gocv.FontHersheySimplex
	labelFontScale = 0.5
	labelThickness = 2
)

// Processor конвейер на OpenCV, используется в сборке с тегом gocv.
type Processor struct {
	opts Options
}

// NewProcessor создаёт конвейер с указанными параметрами.
func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts.withDefaults()}
}

// Decode декодирует байты файла.
func (p *Processor) Decode(data []byte) (image.Image, error) {
	return decodeImage(data, p.opts.MaxPixels)
}

// EncodeJPEG сжимает изображение в JPEG.
func (p *Processor) EncodeJPEG(img image.Image) ([]byte, error) {
	return encodeJPEG(img, p.opts.JPEGQuality)
}

// Preprocess приводит изображение к MaxSide и применяет CLAHE к каналу L.
func (p *Processor) Preprocess(img image.Image) (*entity.Preprocessed, error) {
	mat, err := toMat(img, "preprocess")
	if err != nil {
		return nil, err
	}
	defer func() { mat.Close() }()

	origW, origH := mat.Cols(), mat.Rows()
	w, h, scale := TargetSize(origW, origH, p.opts.MaxSide)
	if scale < 1 {
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
		mat.Close()
		mat = resized
	}

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(mat, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	if len(channels) != 3 {
		return nil, apperr.New(apperr.KindInternal, "preprocess",
			fmt.Sprintf("expected 3 lab channels, got %d", len(channels)))
	}

	clahe := gocv.NewCLAHEWithParams(p.opts.ClipLimit, image.Pt(p.opts.TileGrid, p.opts.TileGrid))
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(channels[0], &enhanced)
	channels[0].Close()
	channels[0] = enhanced

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(channels, &merged)

	out := gocv.NewMat()
	defer out.Close()
	gocv.CvtColor(merged, &out, gocv.ColorLabToBGR)

	res, err := out.ToImage()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "preprocess", "convert mat to image", err)
	}

	return &entity.Preprocessed{
		Image:          res,
		Scale:          scale,
		OriginalWidth:  origW,
		OriginalHeight: origH,
	}, nil
}

// Annotate рисует рамки и подписи на копии изображения. OpenCV сам обрезает
// фигуры по границам кадра.
func (p *Processor) Annotate(img image.Image, defects []entity.Defect) (image.Image, error) {
	mat, err := toMat(img, "annotate")
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, d := range defects {
		col := DefectColor(d.Type)
		box := d.BBox.Ordered()
		// x2, y2 включаются в рамку, как и в сборке без OpenCV.
		gocv.Rectangle(&mat, image.Rect(box[0], box[1], box[2]+1, box[3]+1), col, strokeWidth)

		text := labelText(d)
		size := gocv.GetTextSize(text, labelFont, labelFontScale, labelThickness)
		label := placeLabel(box, size.X, size.Y)
		gocv.Rectangle(&mat, label.Background, col, -1)
		gocv.PutText(&mat, text, label.Baseline, labelFont, labelFontScale, labelTextColor, labelThickness)
	}

	res, err := mat.ToImage()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "annotate", "convert mat to image", err)
	}
	return res, nil
}

// toMat копирует изображение в новый BGR Mat.
func toMat(img image.Image, op string) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.Mat{}, apperr.New(apperr.KindDecode, op, "image is empty")
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, apperr.Wrap(apperr.KindInternal, op, "convert image to mat", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, apperr.New(apperr.KindDecode, op, "image is empty")
	}
	return mat, nil
}

// Проверка реализации интерфейса
var _ port.ImageProcessor = (*Processor)(nil)
