package app

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"pcb-inspector/internal/apperr"
)

// UploadPolicy правила приёма файла до декодирования.
type UploadPolicy struct {
	AllowedExtensions []string // в нижнем регистре, без точки
	MaxFileSize       int64    // в байтах
}

// Validate проверяет имя и размер файла. Ошибки имеют вид KindValidation.
func (p UploadPolicy) Validate(filename string, size int64) error {
	const op = "upload"

	if strings.TrimSpace(filename) == "" {
		return apperr.New(apperr.KindValidation, op, "no file selected")
	}
	if !p.Allowed(filename) {
		return apperr.New(apperr.KindValidation, op,
			fmt.Sprintf("invalid file type, allowed: %s", strings.Join(p.AllowedExtensions, ", ")))
	}
	if err := p.CheckSize(size); err != nil {
		return err
	}
	return nil
}

// CheckSize проверяет только размер.
func (p UploadPolicy) CheckSize(size int64) error {
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		return apperr.New(apperr.KindValidation, "upload",
			fmt.Sprintf("file too large (max %d MB)", p.MaxFileSize>>20))
	}
	return nil
}

// Allowed сообщает, разрешено ли расширение файла.
func (p UploadPolicy) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return slices.Contains(p.AllowedExtensions, ext)
}
