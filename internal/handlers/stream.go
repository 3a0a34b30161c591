package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

const streamBuffer = 64

// HandleEvents streams bus events as Server-Sent Events. ?session=ID limits
// state events to one workflow; courses.changed is always delivered.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := h.startStream(w)
	if !ok {
		return
	}

	filter := r.URL.Query().Get("session")
	ch, cancel := h.bus.Subscribe(streamBuffer)
	defer cancel()
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if filter != "" && e.WorkflowID != "" && e.WorkflowID != filter {
				continue
			}
			if err := writeEvent(w, e.Type, e); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// HandleLogs streams log records as Server-Sent Events.
func (h *Handler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	if h.sink == nil {
		h.writeError(w, "Log streaming is not enabled", http.StatusNotFound)
		return
	}
	flusher, ok := h.startStream(w)
	if !ok {
		return
	}

	ch, cancel := h.sink.Subscribe(streamBuffer)
	defer cancel()
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, "log", e); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) startStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return nil, false
	}
	return flusher, true
}

func writeEvent(w http.ResponseWriter, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to encode event", "err", err)
		return nil
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
