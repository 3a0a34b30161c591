// Package workflow runs the timetable import state machine:
//
//	idle -> scanning -> preview -> confirming -> idle
//	scanning -> idle      (scan error or nothing detected)
//	confirming -> preview (transport error, batch kept for retry)
//
// Every request bumps a generation counter so a response that arrives after
// Discard or a newer request never overwrites current state.
package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/timetable-import/internal/events"
	"github.com/lehigh-university-libraries/timetable-import/internal/importer"
	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
	"github.com/lehigh-university-libraries/timetable-import/internal/preview"
	"github.com/lehigh-university-libraries/timetable-import/internal/reconcile"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithRefresh sets the host's course-list refresh callback. Without one, a
// courses.changed event is published on the bus instead.
func WithRefresh(fn func()) Option {
	return func(w *Workflow) { w.refresh = fn }
}

// WithBus sets the bus that receives state and invalidation events.
func WithBus(bus *events.Bus) Option {
	return func(w *Workflow) { w.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// WithID overrides the generated workflow ID.
func WithID(id string) Option {
	return func(w *Workflow) { w.id = id }
}

// Workflow is one import session. It is safe for concurrent use, but only one
// scan or confirm runs at a time.
type Workflow struct {
	id        string
	scanner   ocr.Scanner
	confirmer importer.Confirmer
	bus       *events.Bus
	refresh   func()
	logger    *slog.Logger

	mu        sync.Mutex
	state     State
	gen       uint64
	selection *preview.Selection
	notice    *reconcile.Notice
	updatedAt time.Time
}

// New creates an idle workflow.
func New(scanner ocr.Scanner, confirmer importer.Confirmer, opts ...Option) *Workflow {
	w := &Workflow{
		id:        uuid.NewString(),
		scanner:   scanner,
		confirmer: confirmer,
		logger:    slog.Default(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("workflow", w.id)
	return w
}

// ID returns the workflow ID.
func (w *Workflow) ID() string {
	return w.id
}

// Result is what a scan or confirm produced.
type Result struct {
	Notice  reconcile.Notice
	Batch   *models.PreviewBatch
	Outcome *models.ImportOutcome
}

// Scan runs OCR on img. An empty batch returns the workflow to idle with an
// info notice; a scan error returns it to idle with an error notice.
func (w *Workflow) Scan(ctx context.Context, img ocr.Image) (Result, error) {
	w.mu.Lock()
	switch {
	case w.state.InFlight():
		w.mu.Unlock()
		return Result{}, ErrBusy
	case w.state == Preview:
		w.mu.Unlock()
		return Result{}, ErrBatchOpen
	case w.unacknowledged():
		w.mu.Unlock()
		return Result{}, ErrUnacknowledged
	}
	gen := w.begin(Scanning)
	w.mu.Unlock()

	w.logger.Info("Scanning timetable", "filename", img.Filename, "bytes", len(img.Data))
	batch, err := w.scanner.Scan(ctx, img)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		w.logger.Warn("Discarding stale scan result")
		return Result{}, ErrStale
	}

	if err != nil {
		notice := reconcile.ForError(err)
		w.finish(Idle, &notice, nil)
		w.logger.Error("Scan failed", "err", err)
		return Result{Notice: notice}, err
	}

	if batch.Empty() {
		notice := reconcile.ForScanEmpty()
		w.finish(Idle, &notice, nil)
		w.logger.Info("No courses detected")
		return Result{Notice: notice, Batch: batch}, nil
	}

	w.finish(Preview, nil, preview.New(batch))
	w.logger.Info("Preview ready", "courses", batch.TotalCourses, "with_conflicts", batch.CoursesWithConflicts)
	return Result{Batch: batch}, nil
}

// Restore opens a preview for a previously saved batch and selection.
func (w *Workflow) Restore(batch *models.PreviewBatch, selected []int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.state.InFlight():
		return ErrBusy
	case w.state == Preview:
		return ErrBatchOpen
	case w.unacknowledged():
		return ErrUnacknowledged
	case batch.Empty():
		return ErrNoBatch
	}

	sel := preview.New(batch)
	sel.Select(selected...)
	w.gen++
	w.finish(Preview, nil, sel)
	return nil
}

// Toggle flips one candidate's selection. It reports false for an
// out-of-range index, which is not an error.
func (w *Workflow) Toggle(index int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return false, err
	}
	ok := w.selection.Toggle(index)
	w.updatedAt = time.Now()
	return ok, nil
}

// Select replaces the selection with indices; out-of-range ones are ignored.
func (w *Workflow) Select(indices []int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return err
	}
	w.selection.Clear()
	w.selection.Select(indices...)
	w.updatedAt = time.Now()
	return nil
}

// SelectAll marks every candidate.
func (w *Workflow) SelectAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return err
	}
	w.selection.SelectAll()
	w.updatedAt = time.Now()
	return nil
}

func (w *Workflow) editable() error {
	switch {
	case w.state.InFlight():
		return ErrBusy
	case w.state != Preview:
		return ErrNoBatch
	case w.unacknowledged():
		return ErrUnacknowledged
	default:
		return nil
	}
}

// unacknowledged reports whether an error notice blocks the controls. Caller holds mu.
func (w *Workflow) unacknowledged() bool {
	return w.notice != nil && w.notice.Blocking()
}

// Confirm submits the current selection once. On success, including an
// outcome where everything was skipped, the batch is dropped and the workflow
// is idle. On a transport error the batch and selection stay for a retry.
func (w *Workflow) Confirm(ctx context.Context) (Result, error) {
	w.mu.Lock()
	if err := w.editable(); err != nil {
		w.mu.Unlock()
		return Result{}, err
	}
	selected := w.selection.SelectedItems()
	gen := w.begin(Confirming)
	w.mu.Unlock()

	w.logger.Info("Confirming import", "selected", len(selected))
	outcome, err := w.confirmer.Confirm(ctx, selected)
	if err == nil && outcome == nil {
		outcome = &models.ImportOutcome{SkippedCourses: []models.SkippedCourse{}}
	}

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		w.logger.Warn("Discarding stale import result")
		if err == nil {
			w.invalidate(outcome)
		}
		return Result{}, ErrStale
	}

	if err != nil {
		notice := reconcile.ForError(err)
		w.finish(Preview, &notice, w.selection)
		w.mu.Unlock()
		w.logger.Error("Import failed, preview kept", "err", err)
		return Result{Notice: notice}, err
	}

	notice := reconcile.ForOutcome(outcome)
	w.finish(Idle, &notice, nil)
	w.mu.Unlock()

	w.logger.Info("Import finished", "summary", notice.Text)
	w.invalidate(outcome)
	return Result{Notice: notice, Outcome: outcome}, nil
}

// Discard drops any batch and abandons in-flight requests. Their responses
// are ignored when they arrive.
func (w *Workflow) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gen++
	w.finish(Idle, nil, nil)
}

// AcknowledgeNotice clears the last notice. After a failure it re-enables
// scanning, confirming and selection edits.
func (w *Workflow) AcknowledgeNotice() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = nil
	w.updatedAt = time.Now()
}

// View is a snapshot of the workflow for rendering.
type View struct {
	ID        string               `json:"id"`
	State     string               `json:"state"`
	Batch     *models.PreviewBatch `json:"batch,omitempty"`
	Selected  []int                `json:"selected"`
	Notice    *reconcile.Notice    `json:"notice,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// View returns a snapshot of the workflow. Batch is nil when no batch is open.
func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		ID:        w.id,
		State:     w.state.String(),
		Selected:  []int{},
		UpdatedAt: w.updatedAt,
	}
	if w.selection != nil {
		v.Batch = w.selection.Batch()
		v.Selected = w.selection.SelectedIndices()
	}
	if w.notice != nil {
		n := *w.notice
		v.Notice = &n
	}
	return v
}

// begin enters an in-flight state and returns its generation. Caller holds mu.
func (w *Workflow) begin(s State) uint64 {
	w.gen++
	w.notice = nil
	w.setState(s)
	return w.gen
}

// finish settles the workflow. Caller holds mu.
func (w *Workflow) finish(s State, notice *reconcile.Notice, sel *preview.Selection) {
	w.notice = notice
	w.selection = sel
	w.setState(s)
}

func (w *Workflow) setState(s State) {
	w.state = s
	w.updatedAt = time.Now()

	if w.bus != nil {
		e := events.Event{Type: events.TypeStateChanged, WorkflowID: w.id, State: s.String()}
		if w.notice != nil {
			e.Message = w.notice.Text
		}
		w.bus.Publish(e)
	}
}

// invalidate tells the host that the persisted course list changed.
func (w *Workflow) invalidate(outcome *models.ImportOutcome) {
	if outcome == nil || !outcome.Changed() {
		return
	}
	if w.refresh != nil {
		w.refresh()
		return
	}
	if w.bus != nil {
		w.bus.Publish(events.Event{
			Type:       events.TypeCoursesChanged,
			WorkflowID: w.id,
			Message:    reconcile.Summarize(outcome),
		})
	}
}
