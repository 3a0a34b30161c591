// Package preview holds the user's selection over a scanned batch.
//
// Conflicting candidates can be selected like any other: the conflict
// annotations are advisory and the backend decides at confirmation time.
// Selection is not safe for concurrent use; the workflow serialises access.
package preview

import (
	"sort"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
)

// Selection tracks which candidates of a batch are marked for import.
type Selection struct {
	batch    *models.PreviewBatch
	selected map[int]bool
}

// New returns a selection over batch with nothing selected.
func New(batch *models.PreviewBatch) *Selection {
	if batch == nil {
		batch = models.NewPreviewBatch(nil)
	}
	return &Selection{batch: batch, selected: make(map[int]bool)}
}

// Batch returns the underlying batch.
func (s *Selection) Batch() *models.PreviewBatch {
	return s.batch
}

// Len returns the number of candidates.
func (s *Selection) Len() int {
	return len(s.batch.Items)
}

func (s *Selection) inRange(index int) bool {
	return index >= 0 && index < len(s.batch.Items)
}

// Toggle flips index in or out of the selection. Out-of-range indexes are
// ignored and reported with false so stale callers do not fail.
func (s *Selection) Toggle(index int) bool {
	if !s.inRange(index) {
		return false
	}
	if s.selected[index] {
		delete(s.selected, index)
	} else {
		s.selected[index] = true
	}
	return true
}

// Select adds indexes to the selection, skipping out-of-range ones.
func (s *Selection) Select(indices ...int) {
	for _, i := range indices {
		if s.inRange(i) {
			s.selected[i] = true
		}
	}
}

// SelectAll marks every candidate.
func (s *Selection) SelectAll() {
	for i := range s.batch.Items {
		s.selected[i] = true
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.selected = make(map[int]bool)
}

// IsSelected reports whether index is selected.
func (s *Selection) IsSelected(index int) bool {
	return s.selected[index]
}

// SelectedIndices returns the selected indexes in ascending order.
func (s *Selection) SelectedIndices() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// SelectedItems returns the selected candidates in batch order.
func (s *Selection) SelectedItems() []models.CandidateCourse {
	out := make([]models.CandidateCourse, 0, len(s.selected))
	for i, item := range s.batch.Items {
		if s.selected[i] {
			out = append(out, item)
		}
	}
	return out
}
