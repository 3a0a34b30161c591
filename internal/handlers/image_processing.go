package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
)

var errTooLarge = errors.New("upload too large")

// readUpload pulls the "file" part out of a multipart request.
func (h *Handler) readUpload(r *http.Request) (ocr.Image, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return ocr.Image{}, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return ocr.Image{}, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ocr.Image{}, fmt.Errorf("failed to read file contents: %w", err)
	}
	if int64(len(data)) > h.maxUpload {
		return ocr.Image{}, fmt.Errorf("file too large (max %d bytes): %w", h.maxUpload, errTooLarge)
	}
	return ocr.NewImage(header.Filename, data)
}

// downloadImage fetches an image by URL, bounded by the upload limit.
func (h *Handler) downloadImage(ctx context.Context, imageURL string) (ocr.Image, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ocr.Image{}, fmt.Errorf("image_url must be an http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return ocr.Image{}, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return ocr.Image{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ocr.Image{}, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxUpload+1))
	if err != nil {
		return ocr.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > h.maxUpload {
		return ocr.Image{}, fmt.Errorf("image too large (max %d bytes): %w", h.maxUpload, errTooLarge)
	}

	filename := path.Base(u.Path)
	if filename == "." || filename == "/" {
		filename = "image"
	}
	return ocr.NewImage(filename, data)
}
