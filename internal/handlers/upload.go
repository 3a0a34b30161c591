package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
	"github.com/lehigh-university-libraries/timetable-import/internal/storage"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

// HandleScan starts a new session from an uploaded timetable image
// (multipart field "file") or from {"image_url": "..."}.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)

	var (
		img ocr.Image
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var request struct {
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if request.ImageURL == "" {
			h.writeError(w, "image_url is required", http.StatusBadRequest)
			return
		}
		img, err = h.downloadImage(r.Context(), request.ImageURL)
	} else {
		img, err = h.readUpload(r)
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, errTooLarge) {
			h.writeError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	wf := workflow.New(h.scanner, h.confirmer,
		workflow.WithBus(h.bus),
		workflow.WithLogger(slog.Default()),
	)
	h.sessionStore.Add(&storage.Session{
		Workflow:  wf,
		Filename:  img.Filename,
		CreatedAt: time.Now(),
	})
	slog.Info("Session created", "session_id", wf.ID(), "filename", img.Filename)

	if _, err := wf.Scan(r.Context(), img); err != nil {
		// the session has no batch to retry against; the view carries the notice
		view := wf.View()
		h.sessionStore.Delete(wf.ID())
		h.writeWorkflowError(w, err, view)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, wf.View())
}
