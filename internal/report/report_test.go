package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/reconcile"
)

func batch() *models.PreviewBatch {
	return models.NewPreviewBatch([]models.CandidateCourse{
		{Title: "Calculus", Instructor: "Dr. Lee", Classroom: "B12", Schedule: []models.TimeSlot{{DayOfWeek: 1, Start: "09:00", End: "10:00"}}},
		{
			Title:     "History",
			Schedule:  []models.TimeSlot{{DayOfWeek: 2, Start: "11:00", End: "12:00"}},
			Conflicts: []models.Conflict{{DayOfWeek: 2, Start: "11:00", End: "12:00", ExistingCourse: "Physics"}},
		},
	})
}

func TestPreviewText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, "text", batch(), []int{1}))

	out := buf.String()
	assert.Contains(t, out, "Detected 2 courses (1 with conflicts), 1 selected")
	assert.Contains(t, out, "[ ] 1. Calculus (Dr. Lee, B12)")
	assert.Contains(t, out, "[x] 2. History  ! conflicts")
	assert.Contains(t, out, "Mon 09:00-10:00")
	assert.Contains(t, out, "! Tue 11:00-12:00 overlaps Physics")
}

func TestPreviewMarksCoursesWithoutSchedule(t *testing.T) {
	b := models.NewPreviewBatch([]models.CandidateCourse{
		{Title: "Calculus", Schedule: []models.TimeSlot{{DayOfWeek: 1, Start: "09:00", End: "10:00"}}},
		{Title: "Independent Study"},
	})

	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, "text", b, nil))
	assert.Contains(t, buf.String(), "[ ] 2. Independent Study  ! no schedule")
	assert.NotContains(t, buf.String(), "Calculus  ! no schedule")

	r := NewPreviewReport(b, nil)
	assert.False(t, r.Courses[0].NoSchedule)
	assert.True(t, r.Courses[1].NoSchedule)
}

func TestPreviewTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, "text", models.NewPreviewBatch(nil), nil))
	assert.Equal(t, "No courses detected\n", buf.String())
}

func TestPreviewStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, "json", batch(), []int{0, 1}))
	var r PreviewReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, 2, r.Selected)
	assert.Equal(t, 1, r.CoursesWithConflicts)

	buf.Reset()
	require.NoError(t, Preview(&buf, "yaml", batch(), nil))
	r = PreviewReport{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, "History", r.Courses[1].Title)
	assert.Zero(t, r.Selected)

	buf.Reset()
	require.NoError(t, Preview(&buf, "csv", batch(), []int{0}))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "true", "Calculus", "Dr. Lee", "B12", "Mon 09:00-10:00", ""}, records[1])
}

func TestOutcome(t *testing.T) {
	outcome := &models.ImportOutcome{
		CoursesCreated:   1,
		SchedulesCreated: 3,
		SkippedCourses:   []models.SkippedCourse{{Title: "History", Reason: "time-slot conflict"}},
	}
	notice := reconcile.ForOutcome(outcome)

	var buf bytes.Buffer
	require.NoError(t, Outcome(&buf, "text", outcome, notice))
	assert.Contains(t, buf.String(), "SUCCESS: 1 course created, 3 schedules, 1 skipped (History: time-slot conflict)")
	assert.Contains(t, buf.String(), "skipped History: time-slot conflict")

	buf.Reset()
	require.NoError(t, Outcome(&buf, "csv", outcome, notice))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"success", "1", "3", "1"}, records[1][:4])

	buf.Reset()
	require.NoError(t, Outcome(&buf, "json", outcome, notice))
	var r OutcomeReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, reconcile.KindSuccess, r.Status)
	assert.Equal(t, 3, r.Outcome.SchedulesCreated)
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorContains(t, Preview(&buf, "xml", batch(), nil), "unsupported format")
	assert.ErrorContains(t, Outcome(&buf, "xml", &models.ImportOutcome{}, reconcile.Notice{}), "unsupported format")
}
