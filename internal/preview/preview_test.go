package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
)

func batchOf(titles ...string) *models.PreviewBatch {
	items := make([]models.CandidateCourse, len(titles))
	for i, title := range titles {
		items[i] = models.CandidateCourse{Title: title}
	}
	return models.NewPreviewBatch(items)
}

func titles(items []models.CandidateCourse) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestNew_StartsEmpty(t *testing.T) {
	s := New(batchOf("A", "B"))
	assert.Empty(t, s.SelectedItems())
	assert.Empty(t, s.SelectedIndices())
	assert.Equal(t, 2, s.Len())
}

func TestToggle_TwiceRestoresMembership(t *testing.T) {
	s := New(batchOf("A", "B", "C"))
	s.Select(2)
	before := s.SelectedIndices()

	for i := 0; i < 3; i++ {
		assert.True(t, s.Toggle(i))
		assert.True(t, s.Toggle(i))
		assert.Equal(t, before, s.SelectedIndices())
	}
}

func TestToggle_OutOfRangeIsNoop(t *testing.T) {
	s := New(batchOf("A"))
	s.Select(0)

	assert.False(t, s.Toggle(-1))
	assert.False(t, s.Toggle(1))
	assert.False(t, s.Toggle(100))
	assert.Equal(t, []int{0}, s.SelectedIndices())
}

func TestSelectedItems_KeepsBatchOrder(t *testing.T) {
	s := New(batchOf("A", "B", "C", "D"))
	s.Toggle(3)
	s.Toggle(0)
	s.Toggle(2)

	assert.Equal(t, []string{"A", "C", "D"}, titles(s.SelectedItems()))
	assert.Equal(t, []int{0, 2, 3}, s.SelectedIndices())
}

func TestConflictingCandidateIsSelectable(t *testing.T) {
	batch := models.NewPreviewBatch([]models.CandidateCourse{
		{Title: "Calculus", HasConflicts: true},
		{Title: "History"},
	})
	s := New(batch)
	s.SelectAll()

	assert.Equal(t, []string{"Calculus", "History"}, titles(s.SelectedItems()))
	assert.True(t, s.IsSelected(0))
}

func TestSelectAndClear(t *testing.T) {
	s := New(batchOf("A", "B"))
	s.Select(1, 5, -2)
	assert.Equal(t, []int{1}, s.SelectedIndices())

	s.Clear()
	assert.Empty(t, s.SelectedIndices())
	assert.False(t, s.IsSelected(1))
}

func TestNew_NilBatch(t *testing.T) {
	s := New(nil)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Toggle(0))
	assert.Empty(t, s.SelectedItems())
}
