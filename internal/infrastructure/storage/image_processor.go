package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"slices"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	ThumbnailSize = 128

	// DefaultMaxPixels bounds the decoded bitmap (about 100 MB as RGBA).
	DefaultMaxPixels = 25_000_000
)

var (
	ErrImageTooLarge      = errors.New("image too large")
	ErrImageTooManyPixels = errors.New("image dimensions too large")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrNotAnImage         = errors.New("not an image")
)

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

var extensions = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"webp": "webp",
}

type ImageProcessor struct {
	MaxSize   int64    // bytes
	MaxPixels int64    // width * height
	Formats   []string // decoder names: jpeg, png, webp
}

func NewImageProcessor(maxSize int64, formats []string) *ImageProcessor {
	return &ImageProcessor{MaxSize: maxSize, MaxPixels: DefaultMaxPixels, Formats: formats}
}

// ValidateImage checks size, encoding and dimensions from the header only and
// returns the detected format. Thumbnail must only see data that passed here.
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(data), p.MaxSize)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if !slices.Contains(p.Formats, format) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); p.MaxPixels > 0 && pixels > p.MaxPixels {
		return "", fmt.Errorf("%w: %dx%d", ErrImageTooManyPixels, cfg.Width, cfg.Height)
	}
	return format, nil
}

// Thumbnail crops to a ThumbnailSize square and encodes JPEG.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	thumb := imaging.Thumbnail(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

func Extension(format string) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return "bin"
}
