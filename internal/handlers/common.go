package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/timetable-import/internal/events"
	"github.com/lehigh-university-libraries/timetable-import/internal/importer"
	"github.com/lehigh-university-libraries/timetable-import/internal/logging"
	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
	"github.com/lehigh-university-libraries/timetable-import/internal/storage"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

const defaultMaxUpload = 10 * 1024 * 1024

// Options wires the handler to its collaborators.
type Options struct {
	Scanner   ocr.Scanner
	Confirmer importer.Confirmer
	Bus       *events.Bus
	// Sink backs /api/logs; the route answers 404 without one.
	Sink           *logging.Sink
	MaxUploadBytes int64
	HTTPClient     *http.Client
}

type Handler struct {
	sessionStore *storage.SessionStore
	scanner      ocr.Scanner
	confirmer    importer.Confirmer
	bus          *events.Bus
	sink         *logging.Sink
	maxUpload    int64
	httpClient   *http.Client
}

func New(opts Options) *Handler {
	h := &Handler{
		sessionStore: storage.New(),
		scanner:      opts.Scanner,
		confirmer:    opts.Confirmer,
		bus:          opts.Bus,
		sink:         opts.Sink,
		maxUpload:    opts.MaxUploadBytes,
		httpClient:   opts.HTTPClient,
	}
	if h.bus == nil {
		h.bus = events.NewBus()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUpload
	}
	if h.httpClient == nil {
		h.httpClient = http.DefaultClient
	}
	return h
}

// Sessions exposes the store, e.g. for pruning from the server loop.
func (h *Handler) Sessions() *storage.SessionStore {
	return h.sessionStore
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/scan", h.HandleScan)
	mux.HandleFunc("GET /api/sessions", h.HandleSessions)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleSessionDelete)
	mux.HandleFunc("POST /api/sessions/{id}/toggle", h.HandleToggle)
	mux.HandleFunc("POST /api/sessions/{id}/select", h.HandleSelect)
	mux.HandleFunc("POST /api/sessions/{id}/confirm", h.HandleConfirm)
	mux.HandleFunc("POST /api/sessions/{id}/ack", h.HandleAcknowledge)
	mux.HandleFunc("GET /api/events", h.HandleEvents)
	mux.HandleFunc("GET /api/logs", h.HandleLogs)
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	h.writeJSONStatus(w, code, map[string]string{"error": message})
}

// writeWorkflowError maps workflow errors onto HTTP statuses. Scan and import
// failures are reported as 502 with the session view so the caller sees the
// retained batch and the notice.
func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error, view workflow.View) {
	var scanErr *ocr.ScanError
	var confirmErr *importer.ConfirmError
	switch {
	case errors.Is(err, workflow.ErrBusy),
		errors.Is(err, workflow.ErrNoBatch),
		errors.Is(err, workflow.ErrBatchOpen),
		errors.Is(err, workflow.ErrUnacknowledged),
		errors.Is(err, workflow.ErrStale):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &scanErr), errors.As(err, &confirmErr):
		slog.Error("Upstream request failed", "session_id", view.ID, "err", err)
		h.writeJSONStatus(w, http.StatusBadGateway, view)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*storage.Session, bool) {
	sessionID := r.PathValue("id")
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
