// Package session holds per-administrator state: the Supabase bearer
// token and the in-memory record store snapshot. A session is created
// at login and destroyed at logout; nothing here is ever persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go-cobit-maturity-admin/internal/cobit"
)

// Manager tracks live sessions by opaque id.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewManager creates a session manager. Sessions idle longer than ttl
// are dropped on next lookup; ttl <= 0 disables expiry.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session for a logged-in administrator and
// returns its id, suitable for a cookie value.
func (m *Manager) Create(email, accessToken string) (string, *Session) {
	s := &Session{
		email:       email,
		accessToken: accessToken,
		createdAt:   time.Now(),
		lastSeen:    time.Now(),
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return id, s
}

// Get returns the session for id, or nil when unknown or expired.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if m.ttl > 0 && time.Since(s.lastTouched()) > m.ttl {
		delete(m.sessions, id)
		return nil
	}
	s.touch()
	return s
}

// Destroy removes a session. The record store and token go with it.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Session is one administrator's state. The record store is replaced
// wholesale by ApplyRefresh and never partially merged.
type Session struct {
	mu          sync.Mutex
	email       string
	accessToken string
	createdAt   time.Time
	lastSeen    time.Time

	records    []cobit.Record
	selectedID string

	nextSeq    uint64
	appliedSeq uint64
}

// Email returns the administrator's login email.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// AccessToken returns the held bearer credential.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Records returns a copy of the current store snapshot.
func (s *Session) Records() []cobit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cobit.Record, len(s.records))
	copy(out, s.records)
	return out
}

// SelectedID returns the id of the record selected for detail view,
// or an empty string when nothing is selected.
func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Select marks a record for detail view. It reports false, leaving the
// previous selection in place, when the id is not in the store.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			s.selectedID = id
			return true
		}
	}
	return false
}

// ClearSelection drops the detail-view selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
}

// BeginRefresh allocates a sequence number for a refresh attempt.
// Sequence numbers order completed refreshes so a slow response can
// never overwrite the result of a newer one.
func (s *Session) BeginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// ApplyRefresh installs a fetched snapshot if seq is newer than the
// last applied refresh; stale responses are discarded and it reports
// false. The selection is re-resolved against the new store and
// cleared when the selected record no longer exists.
func (s *Session) ApplyRefresh(seq uint64, records []cobit.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.records = records

	if s.selectedID != "" {
		found := false
		for _, r := range records {
			if r.ID == s.selectedID {
				found = true
				break
			}
		}
		if !found {
			s.selectedID = ""
		}
	}
	return true
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
