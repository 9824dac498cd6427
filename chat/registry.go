package chat

import "sync"

type registryKey struct {
	userID  string
	eventID string
}

// Registry tracks the open session per (user, event) so transport
// endpoints can route input, like local edits and scroll position, to it.
type Registry struct {
	mu       sync.Mutex
	sessions map[registryKey]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[registryKey]*Session{},
	}
}

// Put registers a session and returns the one it displaced, if any. The
// caller owns closing the displaced session.
func (r *Registry) Put(userID, eventID string, s *Session) *Session {
	key := registryKey{userID: userID, eventID: eventID}

	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.sessions[key]
	r.sessions[key] = s
	return old
}

func (r *Registry) Get(userID, eventID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[registryKey{userID: userID, eventID: eventID}]
	return s, ok
}

// Remove drops the registration, but only if s is still the registered
// session. A stale teardown racing a fresh Put must not drop the new one.
func (r *Registry) Remove(userID, eventID string, s *Session) {
	key := registryKey{userID: userID, eventID: eventID}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[key] == s {
		delete(r.sessions, key)
	}
}
