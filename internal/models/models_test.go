package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreviewBatchCounters(t *testing.T) {
	tests := []struct {
		name              string
		items             []CandidateCourse
		wantTotal         int
		wantWithConflicts int
	}{
		{
			name:  "no items",
			items: nil,
		},
		{
			name: "one of two conflicting",
			items: []CandidateCourse{
				{Title: "Calculus", HasConflicts: true, Conflicts: []Conflict{{DayOfWeek: 1, Start: "09:00", End: "10:00", ExistingCourse: "Physics"}}},
				{Title: "History"},
			},
			wantTotal:         2,
			wantWithConflicts: 1,
		},
		{
			name: "conflict records without flag",
			items: []CandidateCourse{
				{Title: "Art", Conflicts: []Conflict{{DayOfWeek: 2, Start: "13:00", End: "14:00", ExistingCourse: "Music"}}},
			},
			wantTotal:         1,
			wantWithConflicts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewPreviewBatch(tt.items)
			assert.Equal(t, tt.wantTotal, b.TotalCourses)
			assert.Equal(t, len(b.Items), b.TotalCourses)
			assert.Equal(t, tt.wantWithConflicts, b.CoursesWithConflicts)

			flagged := 0
			for _, item := range b.Items {
				if item.HasConflicts {
					flagged++
				}
			}
			assert.Equal(t, flagged, b.CoursesWithConflicts)
		})
	}
}

func TestNewPreviewBatchCopiesItems(t *testing.T) {
	items := []CandidateCourse{{Title: "A"}, {Title: "B"}}
	b := NewPreviewBatch(items)
	items[0].Title = "changed"

	assert.Equal(t, "A", b.Items[0].Title)
	assert.Equal(t, "B", b.Items[1].Title)
}

func TestPreviewBatchMismatch(t *testing.T) {
	b := NewPreviewBatch([]CandidateCourse{{Title: "A", HasConflicts: true}, {Title: "B"}})

	assert.False(t, b.Mismatch(2, 1))
	assert.True(t, b.Mismatch(3, 1))
	assert.True(t, b.Mismatch(2, 0))
}

func TestTimeSlotValidate(t *testing.T) {
	tests := []struct {
		name    string
		slot    TimeSlot
		wantErr bool
	}{
		{name: "valid", slot: TimeSlot{DayOfWeek: 1, Start: "09:00", End: "10:30"}},
		{name: "sunday", slot: TimeSlot{DayOfWeek: 0, Start: "00:00", End: "23:59"}},
		{name: "day too large", slot: TimeSlot{DayOfWeek: 7, Start: "09:00", End: "10:00"}, wantErr: true},
		{name: "negative day", slot: TimeSlot{DayOfWeek: -1, Start: "09:00", End: "10:00"}, wantErr: true},
		{name: "bad start", slot: TimeSlot{DayOfWeek: 1, Start: "9am", End: "10:00"}, wantErr: true},
		{name: "bad end", slot: TimeSlot{DayOfWeek: 1, Start: "09:00", End: "25:00"}, wantErr: true},
		{name: "reversed", slot: TimeSlot{DayOfWeek: 1, Start: "11:00", End: "10:00"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestImportOutcome(t *testing.T) {
	o := &ImportOutcome{CoursesCreated: 0, SchedulesCreated: 0, SkippedCourses: []SkippedCourse{{Reason: "duplicate"}}}
	assert.True(t, o.Empty())
	assert.False(t, o.Changed())

	o = &ImportOutcome{CoursesCreated: 1, SchedulesCreated: 0}
	assert.False(t, o.Empty())
	assert.True(t, o.Changed())
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "Mon 09:00-10:00", TimeSlot{DayOfWeek: 1, Start: "09:00", End: "10:00"}.String())
	assert.Equal(t, "day9", Weekday(9))
}

func TestCandidateUsable(t *testing.T) {
	assert.False(t, CandidateCourse{Title: "Seminar"}.Usable())
	assert.True(t, CandidateCourse{Title: "Calculus", Schedule: []TimeSlot{{DayOfWeek: 1, Start: "09:00", End: "10:00"}}}.Usable())
}
