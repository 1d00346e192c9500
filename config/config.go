package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	UploadDir string
	StaticDir string

	AllowedExtensions []string
	MaxFileSizeMB     int

	MaxImageSide   int
	MaxImagePixels int
	CLAHEClipLimit float64
	CLAHETileGrid  int
	JPEGQuality    int

	// Пустой токен отключает бота
	TelegramToken string

	LogLevel  string
	LogFormat string
}

// MaxFileSize лимит загрузки в байтах.
func (c *Config) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:          getString("HTTP_ADDR", ":5001"),
		UploadDir:         getString("UPLOAD_DIR", "uploads"),
		StaticDir:         getString("STATIC_DIR", "static"),
		AllowedExtensions: parseList(getString("ALLOWED_EXTENSIONS", "png,jpg,jpeg,bmp,tiff")),
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:          getString("LOG_LEVEL", "info"),
		LogFormat:         getString("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.MaxFileSizeMB, err = getInt("MAX_FILE_SIZE_MB", 16); err != nil {
		return nil, err
	}
	if cfg.MaxImageSide, err = getInt("MAX_IMAGE_SIDE", 1024); err != nil {
		return nil, err
	}
	if cfg.MaxImagePixels, err = getInt("MAX_IMAGE_PIXELS", 64<<20); err != nil {
		return nil, err
	}
	if cfg.CLAHEClipLimit, err = getFloat("CLAHE_CLIP_LIMIT", 2.0); err != nil {
		return nil, err
	}
	if cfg.CLAHETileGrid, err = getInt("CLAHE_TILE_GRID", 8); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality, err = getInt("JPEG_QUALITY", 95); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", c.MaxFileSizeMB)
	}
	if c.MaxImageSide <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIDE must be positive, got %d", c.MaxImageSide)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.CLAHEClipLimit <= 0 {
		return fmt.Errorf("CLAHE_CLIP_LIMIT must be positive, got %g", c.CLAHEClipLimit)
	}
	if c.CLAHETileGrid <= 0 {
		return fmt.Errorf("CLAHE_TILE_GRID must be positive, got %d", c.CLAHETileGrid)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be in [1, 100], got %d", c.JPEGQuality)
	}
	return nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

// parseList разбирает список расширений вида "png, .JPG".
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
