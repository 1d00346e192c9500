package port

import (
	"image"

	"pcb-inspector/internal/domain/entity"
)

// ImageProcessor интерфейс конвейера обработки изображений
type ImageProcessor interface {
	// Decode превращает байты файла в изображение
	Decode(data []byte) (image.Image, error)

	// Preprocess ограничивает размер и усиливает локальный контраст
	Preprocess(img image.Image) (*entity.Preprocessed, error)

	// Annotate рисует рамки и подписи дефектов на копии изображения
	Annotate(img image.Image, defects []entity.Defect) (image.Image, error)

	// EncodeJPEG сжимает изображение для передачи клиенту
	EncodeJPEG(img image.Image) ([]byte, error)
}
