package httpserver

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// session is one logged-in admin session.
type session struct {
	username  string
	expiresAt time.Time
}

// SessionStore keeps admin sessions in memory with a TTL. The app runs as
// a single process with a single admin, so there is no shared backend;
// expired entries are dropped lazily on lookup and in bulk by the daily
// purge job.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      now,
	}
}

// Create registers a new session and returns its opaque token.
func (s *SessionStore) Create(username string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		username:  username,
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Username resolves a token to the logged-in username. Expired sessions
// are removed on the spot and reported as absent.
func (s *SessionStore) Username(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if !sess.expiresAt.After(s.now()) {
		delete(s.sessions, token)
		return "", false
	}
	return sess.username, true
}

// Destroy removes a session, if present.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// PurgeExpired drops every expired session and returns how many were removed.
func (s *SessionStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for token, sess := range s.sessions {
		if !sess.expiresAt.After(now) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged
}
