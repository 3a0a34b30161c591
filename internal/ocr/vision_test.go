package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/providers"
)

type fakeProvider struct {
	answer string
	err    error
	got    providers.Config
}

func (f *fakeProvider) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	f.got = config
	return f.answer, f.err
}

func TestVisionScan(t *testing.T) {
	p := &fakeProvider{answer: "Here you go:\n```json\n" + twoCandidates + "\n```"}
	v := &Vision{
		Provider: p,
		Name:     "ollama",
		Model:    "llava",
		Existing: []ExistingCourse{{
			Title:    "Physics",
			Schedule: []models.TimeSlot{{DayOfWeek: 1, Start: "09:00", End: "10:30"}},
		}},
	}

	batch, err := v.Scan(context.Background(), testImage(t))
	require.NoError(t, err)

	assert.Equal(t, 2, batch.TotalCourses)
	assert.Equal(t, 1, batch.CoursesWithConflicts)
	assert.Equal(t, "llava", p.got.Model)
	assert.Equal(t, "image/png", p.got.MIMEType)
	assert.NotEmpty(t, p.got.Image)
	assert.Contains(t, p.got.Prompt, `"title":"Physics"`)
}

func TestVisionScan_NoCourses(t *testing.T) {
	v := &Vision{Provider: &fakeProvider{answer: `{"items": []}`}, Name: "gemini"}

	batch, err := v.Scan(context.Background(), testImage(t))
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestVisionScan_Failures(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		err     error
		wantMsg string
	}{
		{name: "provider error", err: errors.New("connection refused"), wantMsg: "openai inference failed"},
		{name: "prose only", answer: "I could not read the image.", wantMsg: "malformed response"},
		{name: "broken json", answer: `{"items": [}`, wantMsg: "malformed response"},
		{name: "no items key", answer: `{"courses": []}`, wantMsg: "malformed response"},
		{name: "bad time", answer: `{"items": [{"title": "X", "schedule": [{"day_of_week": 1, "start_time": "9", "end_time": "10:00"}]}]}`, wantMsg: "malformed response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vision{Provider: &fakeProvider{answer: tt.answer, err: tt.err}, Name: "openai"}

			_, err := v.Scan(context.Background(), testImage(t))
			var scanErr *ScanError
			require.ErrorAs(t, err, &scanErr)
			assert.Equal(t, tt.wantMsg, scanErr.Message)
		})
	}
}

func TestVisionPrompt_EmptySchedule(t *testing.T) {
	v := &Vision{}
	prompt, err := v.buildPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "The user already has these courses:\n[]")
}
