package chat

import (
	"sync"

	"github.com/benbjohnson/clock"
)

// Scroll decides when the chat view should snap to the bottom. It reacts
// to feed growth and to the typing indicator appearing, but never while
// the reader has scrolled up into history. Scroll requests are debounced
// by a short settle delay so layout has finished before jumping.
type Scroll struct {
	clock    clock.Clock
	onScroll func()

	mu        sync.Mutex
	itemCount int
	hasCount  bool
	typing    bool
	atBottom  bool
	pending   *clock.Timer
}

func NewScroll(clk clock.Clock, onScroll func()) *Scroll {
	return &Scroll{
		clock:    clk,
		onScroll: onScroll,
		atBottom: true,
	}
}

// OnFeedChange reports the feed's current row count. The first report
// establishes a baseline; later reports trigger a scroll only when the
// count actually changed.
func (s *Scroll) OnFeedChange(itemCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The initial snapshot scrolls too, landing the reader at the
	// latest messages when the chat opens.
	if s.hasCount && itemCount == s.itemCount {
		return
	}
	s.itemCount = itemCount
	s.hasCount = true
	s.request()
}

// OnTypingChange reports whether the typing indicator is live. Only the
// off-to-on edge scrolls; the indicator disappearing leaves the view be.
func (s *Scroll) OnTypingChange(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.typing
	s.typing = active
	if !was && active {
		s.request()
	}
}

// SetAtBottom reports whether the reader is at the bottom of the feed.
// While false, scroll requests are dropped, not queued.
func (s *Scroll) SetAtBottom(atBottom bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atBottom = atBottom
}

// request must be called with s.mu held.
func (s *Scroll) request() {
	if !s.atBottom {
		return
	}
	if s.pending != nil {
		// Collapse bursts into one jump.
		s.pending.Stop()
	}
	s.pending = s.clock.AfterFunc(scrollSettleDelay, s.fire)
}

func (s *Scroll) fire() {
	s.mu.Lock()
	s.pending = nil
	atBottom := s.atBottom
	s.mu.Unlock()

	if atBottom && s.onScroll != nil {
		s.onScroll()
	}
}
