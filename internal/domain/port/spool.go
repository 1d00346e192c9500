package port

import "io"

// SpooledFile временный файл с загрузкой
type SpooledFile interface {
	Path() string
	Size() int64
	ReadAll() ([]byte, error)
	// Remove удаляет файл, повторный вызов безопасен
	Remove() error
}

// UploadSpool временное хранилище загруженных файлов
type UploadSpool interface {
	// Spool сохраняет поток во временный файл, не более limit байт
	Spool(r io.Reader, filename string, limit int64) (SpooledFile, error)
}
