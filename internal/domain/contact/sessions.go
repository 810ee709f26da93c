package contact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"diezagency/internal/funnel"
	"diezagency/internal/locale"
)

// WizardFactory builds a wizard for a new session.
type WizardFactory func(lang locale.Locale) *funnel.Wizard

type session struct {
	wizard    *funnel.Wizard
	expiresAt time.Time
}

// SessionStore keeps funnel wizards in memory. Every access extends the
// session; abandoned sessions expire and are dropped without saving.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	factory  WizardFactory
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, factory WizardFactory) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Create starts a wizard in lang and returns its session id.
func (s *SessionStore) Create(lang locale.Locale) (string, *funnel.Wizard) {
	w := s.factory(lang)
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{wizard: w, expiresAt: s.now().Add(s.ttl)}
	return id, w
}

// Get returns the wizard for id and extends its lifetime.
func (s *SessionStore) Get(id string) (*funnel.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	now := s.now()
	if !ok || !now.Before(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess.wizard, nil
}

// Delete abandons a session.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
