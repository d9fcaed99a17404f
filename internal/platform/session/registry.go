package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/homechart/homechart/internal/platform/store"
)

// ErrSessionNotFound is returned for unknown or already-completed
// session ids.
var ErrSessionNotFound = errors.New("session not found or already completed")

// Session is an in-progress visit. It exists in the registry exactly as
// long as the visit is open; on completion it is materialized into a
// store.VisitRecord and removed. It is never persisted directly.
type Session struct {
	SessionID              string
	VisitID                string
	PatientID              string
	ServiceCode            string
	ServiceCodeDescription string
	Date                   string
	Clinician              store.Clinician
	TimeIn                 string
	TimeOut                string
	Status                 string
	Vitals                 store.Vitals
	AssessmentSummary      map[string]string
	InterventionsProvided  []store.InterventionEntry
	GoalsAddressed         []store.GoalProgressEntry
	CoordinationNotes      []store.CoordinationNote
	NextVisitScheduled     string
	CreatedAt              string
}

// Snapshot returns a deep copy of the session. The registry hands out
// snapshots on reads so the live object is only ever touched under the
// registry lock.
func (s *Session) Snapshot() *Session {
	c := *s
	c.Vitals = s.Vitals.Clone()
	if s.AssessmentSummary != nil {
		m := make(map[string]string, len(s.AssessmentSummary))
		for k, v := range s.AssessmentSummary {
			m[k] = v
		}
		c.AssessmentSummary = m
	}
	c.InterventionsProvided = append([]store.InterventionEntry(nil), s.InterventionsProvided...)
	c.GoalsAddressed = append([]store.GoalProgressEntry(nil), s.GoalsAddressed...)
	c.CoordinationNotes = append([]store.CoordinationNote(nil), s.CoordinationNotes...)
	return &c
}

// Registry tracks open visit sessions by session id. One session object
// exists per id; Remove is the only way out.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers an open session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = s
}

// Get returns a point-in-time copy of the open session for id. Session
// mutation goes through Update.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.Snapshot(), nil
}

// Update runs fn against the registered session under the registry
// lock. If fn errors, the error is returned as-is.
func (r *Registry) Update(id string, fn func(*Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return fn(s)
}

// Remove drops the session from the registry. The id is invalid for any
// further operation afterwards.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// NewSessionID generates a process-unique session identifier of the form
// VS-XXXXXXXX. Randomness is wide enough that collisions are not a
// practical concern; there is no retry logic.
func NewSessionID() string {
	hexID := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "VS-" + strings.ToUpper(hexID[:8])
}

// NewVisitID derives the permanent visit identifier from the visit date
// and the 1-based position this visit will occupy in the patient's
// history: V-YYYYMMDD-NNN.
func NewVisitID(visitDate string, priorVisits int) string {
	return fmt.Sprintf("V-%s-%03d", strings.ReplaceAll(visitDate, "-", ""), priorVisits+1)
}
