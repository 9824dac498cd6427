package chat

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gatherapp/gather/types"
)

// TypingState is the display-ready "who is typing" output.
//
// Names lingers through the fade-out grace after typing stops, so a view
// can render the old label at fading opacity; Active flips false the
// moment the live set goes empty. Correctness-level queries should use
// Aggregator.Typing instead, which has no cosmetic lag.
type TypingState struct {
	Names  []string
	Active bool
}

// Label renders the state per the display rules: nothing, "<nick> is
// typing", or "<nick1>, <nick2> and others are typing".
func (s TypingState) Label() string {
	switch len(s.Names) {
	case 0:
		return ""
	case 1:
		return s.Names[0] + " is typing"
	default:
		return s.Names[0] + ", " + s.Names[1] + " and others are typing"
	}
}

// Aggregator folds the event's typing presences into display state. It
// drops records older than the staleness threshold, excludes the local
// user, and keeps a suppression window after every new message so a
// lagging presence delete cannot show "is typing" right under the message
// that was just sent.
type Aggregator struct {
	clock    clock.Clock
	selfID   string
	onChange func(TypingState)

	mu            sync.Mutex
	presences     []types.TypingPresence
	lastMessageID string
	suppressUntil time.Time
	names         []string
	active        bool
	fade          *clock.Timer
	recheck       *clock.Timer
}

// NewAggregator creates an aggregator for the given local user. onChange
// may be nil; when set it is invoked on every display-state change while
// the aggregator's lock is held, so it must not call back into the
// aggregator.
func NewAggregator(selfID string, clk clock.Clock, onChange func(TypingState)) *Aggregator {
	return &Aggregator{
		clock:    clk,
		selfID:   selfID,
		onChange: onChange,
	}
}

// SetPresences replaces the live presence snapshot for the event.
func (a *Aggregator) SetPresences(presences []types.TypingPresence) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.presences = presences
	a.recompute()
}

// ObserveMessages feeds the current ordered message snapshot. A change of
// the last message id opens the suppression window.
func (a *Aggregator) ObserveMessages(msgs []types.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(msgs) == 0 {
		return
	}

	last := msgs[len(msgs)-1]
	if last.ID == a.lastMessageID {
		return
	}

	a.lastMessageID = last.ID
	a.suppressUntil = a.clock.Now().Add(suppressionWindow)
	a.recompute()
}

// Typing returns the correctness-level output: nicks of peers typing
// right now, after staleness, self-exclusion and suppression filters.
func (a *Aggregator) Typing() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveNames()
}

// State returns the current display state.
func (a *Aggregator) State() TypingState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return TypingState{Names: a.names, Active: a.active}
}

// liveNames must be called with a.mu held.
func (a *Aggregator) liveNames() []string {
	now := a.clock.Now()
	if now.Before(a.suppressUntil) {
		return nil
	}

	var names []string
	for _, p := range a.presences {
		if p.UserID == a.selfID {
			continue
		}
		if now.Sub(p.LastSeen) > presenceStaleAfter {
			continue
		}
		names = append(names, p.Nick)
	}
	return names
}

// recompute must be called with a.mu held.
func (a *Aggregator) recompute() {
	names := a.liveNames()

	if a.recheck != nil {
		a.recheck.Stop()
		a.recheck = nil
	}

	if len(names) > 0 {
		if a.fade != nil {
			a.fade.Stop()
			a.fade = nil
		}
		changed := !a.active || !equalNames(a.names, names)
		a.names = names
		a.active = true

		// Re-evaluate when the earliest included record would go stale:
		// a crashed peer stops producing snapshots, so nothing else
		// would ever clear its entry.
		a.scheduleRecheck(a.nextExpiry())

		if changed {
			a.notify()
		}
		return
	}

	// Nobody typing, or suppressed. Schedule a re-check for the end of
	// the suppression window so fresh presences reappear without a tick.
	now := a.clock.Now()
	if now.Before(a.suppressUntil) {
		a.scheduleRecheck(a.suppressUntil)
	}

	if a.active {
		// Keep the old names mounted while the bubble fades out. The
		// fade only clears display state; it never touches suppression.
		a.active = false
		a.fade = a.clock.AfterFunc(fadeOutGrace, a.onFadeOut)
		a.notify()
	}
}

// nextExpiry must be called with a.mu held; it assumes at least one
// fresh peer record exists.
func (a *Aggregator) nextExpiry() time.Time {
	now := a.clock.Now()
	var earliest time.Time
	for _, p := range a.presences {
		if p.UserID == a.selfID || now.Sub(p.LastSeen) > presenceStaleAfter {
			continue
		}
		expiry := p.LastSeen.Add(presenceStaleAfter)
		if earliest.IsZero() || expiry.Before(earliest) {
			earliest = expiry
		}
	}
	return earliest
}

// scheduleRecheck must be called with a.mu held.
func (a *Aggregator) scheduleRecheck(at time.Time) {
	if at.IsZero() {
		return
	}
	// Land just past the deadline. Staleness is strict, so a re-check at
	// the exact expiry instant would still see the record as fresh.
	d := at.Sub(a.clock.Now()) + time.Millisecond
	a.recheck = a.clock.AfterFunc(d, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.recompute()
	})
}

func (a *Aggregator) onFadeOut() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active {
		// Someone resumed typing during the grace period.
		return
	}

	a.fade = nil
	if a.names != nil {
		a.names = nil
		a.notify()
	}
}

// notify must be called with a.mu held.
func (a *Aggregator) notify() {
	if a.onChange != nil {
		a.onChange(TypingState{Names: a.names, Active: a.active})
	}
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
