package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/providers"
)

// Vision scans a timetable by asking a vision LLM to transcribe it.
// Conflict annotations come from the model, which is given the existing schedule.
type Vision struct {
	Provider    providers.Provider
	Name        string
	Model       string
	Temperature float64
	Existing    []ExistingCourse
}

// Scan sends the image to the provider and parses its JSON answer
func (v *Vision) Scan(ctx context.Context, img Image) (*models.PreviewBatch, error) {
	prompt, err := v.buildPrompt()
	if err != nil {
		return nil, scanErr("failed to build prompt", err)
	}

	text, err := v.Provider.ExtractText(ctx, providers.Config{
		Model:       v.Model,
		Temperature: v.Temperature,
		Prompt:      prompt,
		Image:       img.Data,
		MIMEType:    img.ContentType,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, scanErr(fmt.Sprintf("%s request canceled", v.Name), err)
		}
		return nil, scanErr(fmt.Sprintf("%s inference failed", v.Name), err)
	}

	items, err := parseCandidates(text)
	if err != nil {
		return nil, scanErr("malformed response", err)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	batch := models.NewPreviewBatch(items)
	slog.Info("Timetable scanned", "provider", v.Name, "model", v.Model, "courses", batch.TotalCourses, "with_conflicts", batch.CoursesWithConflicts)
	return batch, nil
}

func (v *Vision) buildPrompt() (string, error) {
	existing := v.Existing
	if existing == nil {
		existing = []ExistingCourse{}
	}
	schedule, err := json.Marshal(existing)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are reading a photo or screenshot of a weekly class timetable.

Extract every course shown. For each course report:
- title: the course name exactly as printed
- instructor: the teacher's name, or "" if not shown
- classroom: the room, or "" if not shown
- schedule: every weekly meeting as {"day_of_week": 0-6 with 0 = Sunday, "start_time": "HH:MM", "end_time": "HH:MM"} in 24h time

The user already has these courses:
%s

For each extracted course, list in "conflicts" every meeting that overlaps one of the existing courses as
{"day_of_week": n, "start_time": "HH:MM", "end_time": "HH:MM", "existing_course": "<existing title>"}
and set "has_conflicts" accordingly.

OUTPUT FORMAT:
Return ONLY a JSON object, no commentary:
{"items": [{"title": "", "instructor": "", "classroom": "", "schedule": [], "conflicts": [], "has_conflicts": false}]}
If no courses are visible return {"items": []}.`, schedule), nil
}

// parseCandidates pulls the JSON object out of a model answer, tolerating code fences and chatter.
func parseCandidates(text string) ([]models.CandidateCourse, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, errors.New("no JSON object in model output")
	}

	var payload struct {
		Items *[]models.CandidateCourse `json:"items"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}
	if payload.Items == nil {
		return nil, errors.New("missing items")
	}
	return *payload.Items, nil
}
