package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

// Session is one import workflow hosted by the HTTP server.
type Session struct {
	Workflow  *workflow.Workflow
	Filename  string
	CreatedAt time.Time
}

type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// Add stores session under its workflow ID.
func (s *SessionStore) Add(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Workflow.ID()] = session
}

// List returns all sessions, oldest first.
func (s *SessionStore) List() []*Session {
	s.mu.RLock()
	result := make([]*Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a session and discards its workflow so in-flight responses
// are ignored.
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		session.Workflow.Discard()
	}
	return exists
}

// Prune deletes idle sessions last updated before cutoff and returns how many
// were removed. Sessions with an open batch or a request in flight are kept.
func (s *SessionStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		v := session.Workflow.View()
		if v.State != workflow.Idle.String() || v.UpdatedAt.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}
