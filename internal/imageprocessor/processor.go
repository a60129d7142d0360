package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Параметры миниатюр для фото "до"/"после" и прочих вложений.
const (
	ThumbnailBound = 320
	defaultQuality = 85
)

// Processor делает уменьшенные копии изображений.
type Processor struct {
	quality int
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Processor{quality: quality}
}

// Supports сообщает, умеем ли мы делать миниатюру для данного типа.
func (p *Processor) Supports(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}

// Thumbnail вписывает изображение в квадрат ThumbnailBound с сохранением
// пропорций и кодирует его в исходный формат.
func (p *Processor) Thumbnail(reader io.Reader) (io.Reader, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := p.fit(img, ThumbnailBound, ThumbnailBound)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	return &buf, nil
}

// fit уменьшает изображение до указанных границ, сохраняя пропорции.
// Изображения меньше границ не увеличиваются.
func (p *Processor) fit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

// Dimensions возвращает размеры изображения.
func Dimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
