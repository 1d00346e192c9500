package vision

// DefaultMaxPixels около 64 мегапикселей, RGBA-копия такого кадра занимает 256 MiB
const DefaultMaxPixels = 64 << 20

// Options параметры конвейера обработки
type Options struct {
	MaxSide     int     // максимальная сторона нормализованного изображения
	ClipLimit   float64 // порог ограничения контраста CLAHE
	TileGrid    int     // размер сетки тайлов CLAHE (TileGrid x TileGrid)
	JPEGQuality int     // качество JPEG для ответа клиенту
	MaxPixels   int     // предел ширина*высота декодируемого файла
}

// DefaultOptions возвращает параметры по умолчанию.
func DefaultOptions() Options {
	return Options{
		MaxSide:     1024,
		ClipLimit:   2.0,
		TileGrid:    8,
		JPEGQuality: 95,
		MaxPixels:   DefaultMaxPixels,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxSide <= 0 {
		o.MaxSide = def.MaxSide
	}
	if o.ClipLimit <= 0 {
		o.ClipLimit = def.ClipLimit
	}
	if o.TileGrid <= 0 {
		o.TileGrid = def.TileGrid
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = def.JPEGQuality
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = def.MaxPixels
	}
	return o
}
