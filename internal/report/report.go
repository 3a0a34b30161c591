// Package report renders previews and import outcomes for the terminal.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/reconcile"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "yaml", "csv"}

// Course is one preview line. Number is 1-based, as shown to the user.
type Course struct {
	Number       int               `json:"number" yaml:"number"`
	Selected     bool              `json:"selected" yaml:"selected"`
	Title        string            `json:"title" yaml:"title"`
	Instructor   string            `json:"instructor,omitempty" yaml:"instructor,omitempty"`
	Classroom    string            `json:"classroom,omitempty" yaml:"classroom,omitempty"`
	Schedule     []models.TimeSlot `json:"schedule" yaml:"schedule"`
	Conflicts    []models.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	HasConflicts bool              `json:"has_conflicts" yaml:"has_conflicts"`
	// NoSchedule marks a candidate without meeting times; importing it creates no schedules.
	NoSchedule bool `json:"no_schedule,omitempty" yaml:"no_schedule,omitempty"`
}

// PreviewReport is the rendered form of a preview batch.
type PreviewReport struct {
	TotalCourses         int      `json:"total_courses" yaml:"total_courses"`
	CoursesWithConflicts int      `json:"courses_with_conflicts" yaml:"courses_with_conflicts"`
	Selected             int      `json:"selected" yaml:"selected"`
	Courses              []Course `json:"courses" yaml:"courses"`
}

// OutcomeReport is the rendered form of an import outcome.
type OutcomeReport struct {
	Status  reconcile.Kind        `json:"status" yaml:"status"`
	Summary string                `json:"summary" yaml:"summary"`
	Outcome *models.ImportOutcome `json:"outcome" yaml:"outcome"`
}

// NewPreviewReport builds a report for batch with the given selected indices.
func NewPreviewReport(batch *models.PreviewBatch, selected []int) PreviewReport {
	marks := make(map[int]bool, len(selected))
	for _, i := range selected {
		marks[i] = true
	}

	r := PreviewReport{Courses: []Course{}}
	if batch == nil {
		return r
	}
	r.TotalCourses = batch.TotalCourses
	r.CoursesWithConflicts = batch.CoursesWithConflicts
	for i, item := range batch.Items {
		if marks[i] {
			r.Selected++
		}
		r.Courses = append(r.Courses, Course{
			Number:       i + 1,
			Selected:     marks[i],
			Title:        item.Title,
			Instructor:   item.Instructor,
			Classroom:    item.Classroom,
			Schedule:     item.Schedule,
			Conflicts:    item.Conflicts,
			HasConflicts: item.HasConflicts,
			NoSchedule:   !item.Usable(),
		})
	}
	return r
}

// Preview writes batch in format.
func Preview(w io.Writer, format string, batch *models.PreviewBatch, selected []int) error {
	r := NewPreviewReport(batch, selected)
	switch format {
	case "text", "":
		return previewText(w, r)
	case "json":
		return writeJSON(w, r)
	case "yaml":
		return writeYAML(w, r)
	case "csv":
		return previewCSV(w, r)
	default:
		return unsupported(format)
	}
}

// Outcome writes an import result in format.
func Outcome(w io.Writer, format string, outcome *models.ImportOutcome, notice reconcile.Notice) error {
	r := OutcomeReport{Status: notice.Kind, Summary: notice.Text, Outcome: outcome}
	switch format {
	case "text", "":
		return outcomeText(w, r)
	case "json":
		return writeJSON(w, r)
	case "yaml":
		return writeYAML(w, r)
	case "csv":
		return outcomeCSV(w, r)
	default:
		return unsupported(format)
	}
}

func unsupported(format string) error {
	return fmt.Errorf("unsupported format: %s (valid: %s)", format, strings.Join(Formats, ", "))
}

func previewText(w io.Writer, r PreviewReport) error {
	if r.TotalCourses == 0 {
		_, err := fmt.Fprintln(w, reconcile.NoCoursesDetected)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Detected %d courses (%d with conflicts), %d selected\n\n", r.TotalCourses, r.CoursesWithConflicts, r.Selected)
	for _, c := range r.Courses {
		mark := " "
		if c.Selected {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %d. %s", mark, c.Number, c.Title)
		if details := joinNonEmpty(c.Instructor, c.Classroom); details != "" {
			fmt.Fprintf(&b, " (%s)", details)
		}
		if c.HasConflicts {
			b.WriteString("  ! conflicts")
		}
		if c.NoSchedule {
			b.WriteString("  ! no schedule")
		}
		b.WriteString("\n")

		for _, slot := range c.Schedule {
			fmt.Fprintf(&b, "      %s\n", slot)
		}
		for _, conflict := range c.Conflicts {
			fmt.Fprintf(&b, "      ! %s\n", conflict)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func outcomeText(w io.Writer, r OutcomeReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(r.Status)), r.Summary)
	if r.Outcome != nil {
		for _, s := range r.Outcome.SkippedCourses {
			title := s.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(&b, "  skipped %s: %s\n", title, s.Reason)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func previewCSV(w io.Writer, r PreviewReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"number", "selected", "title", "instructor", "classroom", "schedule", "conflicts"}); err != nil {
		return err
	}
	for _, c := range r.Courses {
		slots := make([]string, len(c.Schedule))
		for i, s := range c.Schedule {
			slots[i] = s.String()
		}
		conflicts := make([]string, len(c.Conflicts))
		for i, cf := range c.Conflicts {
			conflicts[i] = cf.String()
		}
		record := []string{
			strconv.Itoa(c.Number),
			strconv.FormatBool(c.Selected),
			c.Title,
			c.Instructor,
			c.Classroom,
			strings.Join(slots, "; "),
			strings.Join(conflicts, "; "),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func outcomeCSV(w io.Writer, r OutcomeReport) error {
	writer := csv.NewWriter(w)
	records := [][]string{{"status", "courses_created", "schedules_created", "skipped", "summary"}}
	row := []string{string(r.Status), "0", "0", "0", r.Summary}
	if r.Outcome != nil {
		row[1] = strconv.Itoa(r.Outcome.CoursesCreated)
		row[2] = strconv.Itoa(r.Outcome.SchedulesCreated)
		row[3] = strconv.Itoa(len(r.Outcome.SkippedCourses))
	}
	records = append(records, row)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
