package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/remote"
)

// Client calls the backend OCR endpoint
type Client struct {
	URL        string
	Token      string
	httpClient *http.Client
}

// NewClient creates an OCR client for the endpoint at baseURL+path
func NewClient(baseURL, path, token string, timeout time.Duration) *Client {
	return &Client{
		URL:   strings.TrimRight(baseURL, "/") + path,
		Token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type scanResponse struct {
	Items                *[]models.CandidateCourse `json:"items"`
	TotalCourses         int                       `json:"total_courses"`
	CoursesWithConflicts int                       `json:"courses_with_conflicts"`
}

// Scan uploads the image and returns the candidates detected by the service
func (c *Client) Scan(ctx context.Context, img Image) (*models.PreviewBatch, error) {
	body, contentType, err := multipartBody(img)
	if err != nil {
		return nil, scanErr("failed to encode upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return nil, scanErr("failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, scanErr(remote.TransportMessage(err, "OCR service"), err)
	}
	defer resp.Body.Close()

	if !remote.OK(resp.StatusCode) {
		return nil, &ScanError{
			Message: remote.ErrorMessage(resp),
			Status:  resp.StatusCode,
		}
	}

	var payload scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ScanError{Message: "malformed response", Status: resp.StatusCode, Err: err}
	}
	if payload.Items == nil {
		return nil, &ScanError{Message: "malformed response", Status: resp.StatusCode, Err: errors.New("missing items")}
	}
	if err := validateItems(*payload.Items); err != nil {
		return nil, err
	}

	batch := models.NewPreviewBatch(*payload.Items)
	if batch.Mismatch(payload.TotalCourses, payload.CoursesWithConflicts) {
		slog.Warn("OCR summary disagrees with items, using recomputed counters",
			"reported_total", payload.TotalCourses,
			"reported_conflicts", payload.CoursesWithConflicts,
			"total", batch.TotalCourses,
			"conflicts", batch.CoursesWithConflicts)
	}

	slog.Info("Timetable scanned", "filename", img.Filename, "courses", batch.TotalCourses, "with_conflicts", batch.CoursesWithConflicts)
	return batch, nil
}

func multipartBody(img Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = "timetable"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", img.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func fmtItemErr(i int, err error) error {
	return fmt.Errorf("items[%d]: %w", i, err)
}
