package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pcb-inspector/internal/apperr"
	"pcb-inspector/internal/domain/port"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileSpool складывает загрузки во временные файлы каталога dir
type FileSpool struct {
	dir string
}

// NewFileSpool создаёт каталог для загрузок, если его ещё нет
func NewFileSpool(dir string) (*FileSpool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileSpool{dir: dir}, nil
}

// Spool копирует r в новый файл. Если данных больше limit, частичный файл
// удаляется и возвращается ошибка валидации.
func (s *FileSpool) Spool(r io.Reader, filename string, limit int64) (port.SpooledFile, error) {
	name := uuid.NewString() + "-" + SanitizeFilename(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "spool", "create temp file", err)
	}

	// Читаем на байт больше лимита, чтобы отличить "ровно limit" от "больше".
	n, copyErr := io.Copy(f, io.LimitReader(r, limit+1))
	closeErr := f.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, apperr.Wrap(apperr.KindInternal, "spool", "write temp file", err)
	}
	if n > limit {
		_ = os.Remove(path)
		return nil, apperr.New(apperr.KindValidation, "spool",
			fmt.Sprintf("file too large (max %d MB)", limit>>20))
	}

	return &spooledFile{path: path, size: n}, nil
}

// SanitizeFilename оставляет от имени файла только безопасную базовую часть
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

type spooledFile struct {
	path string
	size int64
	once sync.Once
	err  error
}

func (f *spooledFile) Path() string { return f.path }

func (f *spooledFile) Size() int64 { return f.size }

func (f *spooledFile) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "spool", "read temp file", err)
	}
	return data, nil
}

func (f *spooledFile) Remove() error {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.err = err
		}
	})
	return f.err
}

var _ port.UploadSpool = (*FileSpool)(nil)
