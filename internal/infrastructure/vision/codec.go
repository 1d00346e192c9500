package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"pcb-inspector/internal/apperr"
)

const jpegDataURIPrefix = "data:image/jpeg;base64,"

// decodeImage декодирует PNG, JPEG, BMP или TIFF с учётом EXIF-ориентации.
// Размеры проверяются по заголовку до декодирования: изображение больше
// maxPixels пикселей отклоняется. maxPixels <= 0 снимает ограничение.
func decodeImage(data []byte, maxPixels int) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.KindDecode, "decode", "empty image payload")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "decode", "failed to read image header", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, apperr.New(apperr.KindValidation, "decode",
			fmt.Sprintf("image too large (%dx%d, max %d pixels)", cfg.Width, cfg.Height, maxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "decode", "failed to decode image", err)
	}
	if img.Bounds().Empty() {
		return nil, apperr.New(apperr.KindDecode, "decode", "image has no pixels")
	}

	return img, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode", "encode jpeg", err)
	}
	return buf.Bytes(), nil
}

// DataURI оборачивает JPEG в data URI для вставки в JSON.
func DataURI(jpegData []byte) string {
	return jpegDataURIPrefix + base64.StdEncoding.EncodeToString(jpegData)
}
