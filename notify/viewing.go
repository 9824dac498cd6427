package notify

import "sync"

// ViewingContext tracks which event chat each user currently has open, so
// message notifications for that chat can be skipped for that user alone.
// A user with no open chat has no entry.
type ViewingContext struct {
	mu   sync.Mutex
	open map[string]string // user id -> event id
}

func NewViewingContext() *ViewingContext {
	return &ViewingContext{
		open: map[string]string{},
	}
}

func (v *ViewingContext) Enter(userID, eventID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open[userID] = eventID
}

// Leave drops the user's claim, but only if it still belongs to eventID.
// A stale teardown racing a fresh Enter must not clobber the new screen.
func (v *ViewingContext) Leave(userID, eventID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.open[userID] == eventID {
		delete(v.open, userID)
	}
}

func (v *ViewingContext) Viewing(userID, eventID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open[userID] == eventID
}
