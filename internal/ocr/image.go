package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

var supportedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is the picture of a timetable handed to a Scanner
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewImage sniffs the content type of data and rejects unsupported encodings
func NewImage(filename string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, scanErr("image is empty", nil)
	}

	contentType := http.DetectContentType(data)
	if !supportedTypes[contentType] {
		return Image{}, scanErr(fmt.Sprintf("unsupported image type %s (use JPEG, PNG, GIF or WebP)", contentType), nil)
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		slog.Debug("Image loaded", "filename", filename, "type", contentType, "width", cfg.Width, "height", cfg.Height)
	}

	return Image{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// LoadImage reads an image from disk
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, scanErr("failed to read image", err)
	}
	return NewImage(path, data)
}
