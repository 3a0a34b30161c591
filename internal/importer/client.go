package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/remote"
)

// Confirmer persists the selected candidates and reports what happened
type Confirmer interface {
	Confirm(ctx context.Context, selected []models.CandidateCourse) (*models.ImportOutcome, error)
}

// Client posts selections to the backend import endpoint
type Client struct {
	URL        string
	Token      string
	httpClient *http.Client
}

// NewClient creates an import client for the endpoint at baseURL+path
func NewClient(baseURL, path, token string, timeout time.Duration) *Client {
	return &Client{
		URL:   strings.TrimRight(baseURL, "/") + path,
		Token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type importCourse struct {
	Title      string            `json:"title"`
	Instructor string            `json:"instructor"`
	Classroom  string            `json:"classroom"`
	Schedule   []models.TimeSlot `json:"schedule"`
}

type importRequest struct {
	Courses []importCourse `json:"courses"`
}

// Confirm submits the selection once. An empty selection returns a zero
// outcome without contacting the backend. A response that created nothing
// and skipped everything is a valid outcome, not an error.
func (c *Client) Confirm(ctx context.Context, selected []models.CandidateCourse) (*models.ImportOutcome, error) {
	if len(selected) == 0 {
		return &models.ImportOutcome{SkippedCourses: []models.SkippedCourse{}}, nil
	}

	payload := importRequest{Courses: make([]importCourse, 0, len(selected))}
	for _, course := range selected {
		schedule := course.Schedule
		if schedule == nil {
			schedule = []models.TimeSlot{}
		}
		payload.Courses = append(payload.Courses, importCourse{
			Title:      course.Title,
			Instructor: course.Instructor,
			Classroom:  course.Classroom,
			Schedule:   schedule,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ConfirmError{Message: "failed to encode selection", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &ConfirmError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConfirmError{Message: remote.TransportMessage(err, "import service"), Err: err}
	}
	defer resp.Body.Close()

	if !remote.OK(resp.StatusCode) {
		return nil, &ConfirmError{Message: remote.ErrorMessage(resp), Status: resp.StatusCode}
	}

	var outcome models.ImportOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, &ConfirmError{Message: "malformed response", Status: resp.StatusCode, Err: err}
	}
	if outcome.CoursesCreated < 0 || outcome.SchedulesCreated < 0 {
		return nil, &ConfirmError{Message: "malformed response: negative counts", Status: resp.StatusCode}
	}
	if outcome.SkippedCourses == nil {
		outcome.SkippedCourses = []models.SkippedCourse{}
	}

	slog.Info("Import confirmed",
		"submitted", len(selected),
		"courses_created", outcome.CoursesCreated,
		"schedules_created", outcome.SchedulesCreated,
		"skipped", len(outcome.SkippedCourses))
	return &outcome, nil
}
