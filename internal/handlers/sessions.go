package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/reconcile"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

type sessionSummary struct {
	workflow.View
	Filename string `json:"filename"`
}

type confirmResponse struct {
	Session workflow.View         `json:"session"`
	Outcome *models.ImportOutcome `json:"outcome"`
	Notice  reconcile.Notice      `json:"notice"`
}

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.List()
	sessionList := make([]sessionSummary, 0, len(sessions))
	for _, session := range sessions {
		sessionList = append(sessionList, sessionSummary{View: session.Workflow.View(), Filename: session.Filename})
	}
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, session.Workflow.View())
}

func (h *Handler) HandleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(r.PathValue("id")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Index == nil {
		h.writeError(w, "index is required", http.StatusBadRequest)
		return
	}

	// out-of-range indices are a no-op, not an error
	if _, err := session.Workflow.Toggle(*request.Index); err != nil {
		h.writeWorkflowError(w, err, session.Workflow.View())
		return
	}
	h.writeJSON(w, session.Workflow.View())
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Indices []int `json:"indices"`
		All     bool  `json:"all"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var err error
	if request.All {
		err = session.Workflow.SelectAll()
	} else {
		err = session.Workflow.Select(request.Indices)
	}
	if err != nil {
		h.writeWorkflowError(w, err, session.Workflow.View())
		return
	}
	h.writeJSON(w, session.Workflow.View())
}

func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	res, err := session.Workflow.Confirm(r.Context())
	if err != nil {
		h.writeWorkflowError(w, err, session.Workflow.View())
		return
	}
	h.writeJSON(w, confirmResponse{
		Session: session.Workflow.View(),
		Outcome: res.Outcome,
		Notice:  res.Notice,
	})
}

// HandleAcknowledge dismisses the session's notice. After a failed import
// this re-enables selection edits and confirm.
func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	session.Workflow.AcknowledgeNotice()
	h.writeJSON(w, session.Workflow.View())
}
