package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchedule(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSchedule(t *testing.T) {
	path := writeSchedule(t, `
courses:
  - title: Physics
    schedule:
      - {day_of_week: 1, start_time: "09:00", end_time: "10:30"}
      - {day_of_week: 3, start_time: "09:00", end_time: "10:30"}
  - title: Chemistry
    schedule: []
`)

	courses, err := LoadSchedule(path)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Physics", courses[0].Title)
	assert.Len(t, courses[0].Schedule, 2)
	assert.Equal(t, "10:30", courses[0].Schedule[1].End)
}

func TestLoadSchedule_Invalid(t *testing.T) {
	path := writeSchedule(t, `
courses:
  - title: Physics
    schedule:
      - {day_of_week: 8, start_time: "09:00", end_time: "10:30"}
`)
	_, err := LoadSchedule(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "courses[0].schedule[0]")

	_, err = LoadSchedule(writeSchedule(t, "courses: [unterminated"))
	require.Error(t, err)

	_, err = LoadSchedule(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
