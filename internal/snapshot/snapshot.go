// Package snapshot saves a preview batch and its selection between the
// scan and confirm CLI steps. The file extension picks the format:
// .parquet, .jsonl or .yaml/.yml.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
)

// Snapshot is a saved preview.
type Snapshot struct {
	Batch    *models.PreviewBatch
	Selected []int
}

// Slot is a TimeSlot as stored in a snapshot row.
type Slot struct {
	DayOfWeek int    `parquet:"day_of_week" json:"day_of_week" yaml:"day_of_week"`
	Start     string `parquet:"start_time" json:"start_time" yaml:"start_time"`
	End       string `parquet:"end_time" json:"end_time" yaml:"end_time"`
}

// ConflictRow is a Conflict as stored in a snapshot row.
type ConflictRow struct {
	DayOfWeek      int    `parquet:"day_of_week" json:"day_of_week" yaml:"day_of_week"`
	Start          string `parquet:"start_time" json:"start_time" yaml:"start_time"`
	End            string `parquet:"end_time" json:"end_time" yaml:"end_time"`
	ExistingCourse string `parquet:"existing_course" json:"existing_course" yaml:"existing_course"`
}

// Row is one candidate course plus its selection mark.
type Row struct {
	Index        int           `parquet:"index" json:"index" yaml:"index"`
	Selected     bool          `parquet:"selected" json:"selected" yaml:"selected"`
	Title        string        `parquet:"title" json:"title" yaml:"title"`
	Instructor   string        `parquet:"instructor" json:"instructor" yaml:"instructor"`
	Classroom    string        `parquet:"classroom" json:"classroom" yaml:"classroom"`
	Schedule     []Slot        `parquet:"schedule" json:"schedule" yaml:"schedule"`
	Conflicts    []ConflictRow `parquet:"conflicts" json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	HasConflicts bool          `parquet:"has_conflicts" json:"has_conflicts" yaml:"has_conflicts"`
}

// Rows flattens a snapshot in batch order.
func (s Snapshot) Rows() []Row {
	if s.Batch == nil {
		return nil
	}
	selected := make(map[int]bool, len(s.Selected))
	for _, i := range s.Selected {
		selected[i] = true
	}

	rows := make([]Row, len(s.Batch.Items))
	for i, item := range s.Batch.Items {
		row := Row{
			Index:        i,
			Selected:     selected[i],
			Title:        item.Title,
			Instructor:   item.Instructor,
			Classroom:    item.Classroom,
			HasConflicts: item.HasConflicts,
		}
		for _, slot := range item.Schedule {
			row.Schedule = append(row.Schedule, Slot(slot))
		}
		for _, c := range item.Conflicts {
			row.Conflicts = append(row.Conflicts, ConflictRow(c))
		}
		rows[i] = row
	}
	return rows
}

// FromRows rebuilds a snapshot. Rows are ordered by Index.
func FromRows(rows []Row) Snapshot {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	items := make([]models.CandidateCourse, len(sorted))
	selected := []int{}
	for i, row := range sorted {
		item := models.CandidateCourse{
			Title:        row.Title,
			Instructor:   row.Instructor,
			Classroom:    row.Classroom,
			HasConflicts: row.HasConflicts,
		}
		for _, slot := range row.Schedule {
			item.Schedule = append(item.Schedule, models.TimeSlot(slot))
		}
		for _, c := range row.Conflicts {
			item.Conflicts = append(item.Conflicts, models.Conflict(c))
		}
		items[i] = item
		if row.Selected {
			selected = append(selected, i)
		}
	}
	return Snapshot{Batch: models.NewPreviewBatch(items), Selected: selected}
}

type format struct {
	write func(path string, s Snapshot) error
	read  func(path string) (Snapshot, error)
}

var formats = map[string]format{
	".parquet": {write: writeParquet, read: readParquet},
	".jsonl":   {write: writeJSONL, read: readJSONL},
	".yaml":    {write: writeYAML, read: readYAML},
	".yml":     {write: writeYAML, read: readYAML},
}

func formatFor(path string) (format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return format{}, fmt.Errorf("unsupported snapshot format: %q (supported: .parquet, .jsonl, .yaml)", ext)
	}
	return f, nil
}

// Save writes s to path. The file is replaced atomically.
func Save(path string, s Snapshot) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := f.write(tmpPath, s); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(path string) (Snapshot, error) {
	f, err := formatFor(path)
	if err != nil {
		return Snapshot{}, err
	}
	s, err := f.read(path)
	if err != nil {
		return Snapshot{}, err
	}
	for i, item := range s.Batch.Items {
		if err := item.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("snapshot item %d: %w", i, err)
		}
	}
	return s, nil
}
