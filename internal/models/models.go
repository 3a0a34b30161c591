package models

import (
	"fmt"
	"time"
)

// ClockLayout is the 24h wall-clock format used for slot boundaries
const ClockLayout = "15:04"

// TimeSlot is one weekly meeting of a course. DayOfWeek runs 0 (Sunday) to 6.
type TimeSlot struct {
	DayOfWeek int    `json:"day_of_week" yaml:"day_of_week"`
	Start     string `json:"start_time" yaml:"start_time"`
	End       string `json:"end_time" yaml:"end_time"`
}

// Validate checks the day range and the HH:MM boundaries
func (s TimeSlot) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week %d out of range 0-6", s.DayOfWeek)
	}
	start, err := time.Parse(ClockLayout, s.Start)
	if err != nil {
		return fmt.Errorf("invalid start_time %q: %w", s.Start, err)
	}
	end, err := time.Parse(ClockLayout, s.End)
	if err != nil {
		return fmt.Errorf("invalid end_time %q: %w", s.End, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time %s is not before end_time %s", s.Start, s.End)
	}
	return nil
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", Weekday(s.DayOfWeek), s.Start, s.End)
}

// Conflict names an existing course that overlaps a candidate's slot
type Conflict struct {
	DayOfWeek      int    `json:"day_of_week" yaml:"day_of_week"`
	Start          string `json:"start_time" yaml:"start_time"`
	End            string `json:"end_time" yaml:"end_time"`
	ExistingCourse string `json:"existing_course" yaml:"existing_course"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s %s-%s overlaps %s", Weekday(c.DayOfWeek), c.Start, c.End, c.ExistingCourse)
}

// CandidateCourse is a course proposed by OCR inference, not yet persisted
type CandidateCourse struct {
	Title        string     `json:"title" yaml:"title"`
	Instructor   string     `json:"instructor" yaml:"instructor"`
	Classroom    string     `json:"classroom" yaml:"classroom"`
	Schedule     []TimeSlot `json:"schedule" yaml:"schedule"`
	Conflicts    []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	HasConflicts bool       `json:"has_conflicts" yaml:"has_conflicts"`
}

// Usable reports whether the candidate has anything to import
func (c CandidateCourse) Usable() bool {
	return len(c.Schedule) > 0
}

// Validate checks every slot of the candidate
func (c CandidateCourse) Validate() error {
	for i, slot := range c.Schedule {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("schedule[%d]: %w", i, err)
		}
	}
	return nil
}

// PreviewBatch holds the candidates awaiting selection. Build it with NewPreviewBatch.
type PreviewBatch struct {
	Items                []CandidateCourse `json:"items"`
	TotalCourses         int               `json:"total_courses"`
	CoursesWithConflicts int               `json:"courses_with_conflicts"`
}

// NewPreviewBatch copies items in order and derives the summary counters from them.
// A candidate carrying conflict records always has HasConflicts set.
func NewPreviewBatch(items []CandidateCourse) *PreviewBatch {
	b := &PreviewBatch{Items: make([]CandidateCourse, len(items))}
	for i, item := range items {
		if len(item.Conflicts) > 0 {
			item.HasConflicts = true
		}
		b.Items[i] = item
		if item.HasConflicts {
			b.CoursesWithConflicts++
		}
	}
	b.TotalCourses = len(b.Items)
	return b
}

// Mismatch reports whether a service-supplied summary disagrees with the batch
func (b *PreviewBatch) Mismatch(total, withConflicts int) bool {
	return total != b.TotalCourses || withConflicts != b.CoursesWithConflicts
}

// Empty reports whether no courses were detected
func (b *PreviewBatch) Empty() bool {
	return b == nil || len(b.Items) == 0
}

// SkippedCourse is one candidate the backend refused to import
type SkippedCourse struct {
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
}

// ImportOutcome is the backend's report for one confirmation call.
// A course may be created with zero schedules, so only SkippedCourses
// accounts for fully skipped candidates.
type ImportOutcome struct {
	CoursesCreated   int             `json:"coursesCreated" yaml:"courses_created"`
	SchedulesCreated int             `json:"schedulesCreated" yaml:"schedules_created"`
	SkippedCourses   []SkippedCourse `json:"skippedCourses" yaml:"skipped_courses"`
}

// Empty reports whether nothing was created
func (o *ImportOutcome) Empty() bool {
	return o.CoursesCreated == 0
}

// Changed reports whether persisted data was modified
func (o *ImportOutcome) Changed() bool {
	return o.CoursesCreated > 0 || o.SchedulesCreated > 0
}

var weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Weekday returns the short English name of a 0-6 day index
func Weekday(day int) string {
	if day < 0 || day >= len(weekdays) {
		return fmt.Sprintf("day%d", day)
	}
	return weekdays[day]
}
