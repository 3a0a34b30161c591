package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

func newSession(id string, created time.Time) *Session {
	return &Session{
		Workflow:  workflow.New(nil, nil, workflow.WithID(id)),
		Filename:  id + ".png",
		CreatedAt: created,
	}
}

func TestSessionStore(t *testing.T) {
	s := New()
	now := time.Now()
	s.Add(newSession("b", now))
	s.Add(newSession("a", now.Add(-time.Minute)))

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b.png", got.Filename)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Workflow.ID())
	assert.Equal(t, "b", list[1].Workflow.ID())

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestDeleteDiscardsWorkflow(t *testing.T) {
	s := New()
	session := newSession("x", time.Now())
	batch := models.NewPreviewBatch([]models.CandidateCourse{{Title: "Calculus"}})
	require.NoError(t, session.Workflow.Restore(batch, nil))
	s.Add(session)

	require.True(t, s.Delete("x"))
	assert.Equal(t, workflow.Idle, session.Workflow.State())
	_, err := session.Workflow.Confirm(context.Background())
	assert.ErrorIs(t, err, workflow.ErrNoBatch)
}

func TestPruneKeepsOpenBatches(t *testing.T) {
	s := New()
	idle := newSession("idle", time.Now())
	open := newSession("open", time.Now())
	require.NoError(t, open.Workflow.Restore(models.NewPreviewBatch([]models.CandidateCourse{{Title: "Art"}}), nil))
	s.Add(idle)
	s.Add(open)

	assert.Zero(t, s.Prune(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, s.Prune(time.Now().Add(time.Second)))

	_, ok := s.Get("idle")
	assert.False(t, ok)
	_, ok = s.Get("open")
	assert.True(t, ok)
}
