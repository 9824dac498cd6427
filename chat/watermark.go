package chat

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gatherapp/gather/types"
)

// UnreadCount counts messages from other participants newer than the
// reader's watermark. A nil watermark means the reader never opened the
// chat, so every peer message counts.
func UnreadCount(msgs []types.Message, selfID string, lastRead *time.Time) int {
	var n int
	for _, msg := range msgs {
		if msg.UserID == selfID {
			continue
		}
		if lastRead != nil && !msg.CreatedAt.After(*lastRead) {
			continue
		}
		n++
	}
	return n
}

// ReadMarkStore persists read watermarks. Implemented by the cockroach
// layer.
type ReadMarkStore interface {
	UpsertReadMark(ctx context.Context, in types.MarkRead, at time.Time) error
}

// Watermark advances the session user's read mark when they leave the
// chat. MarkReadOnExit is idempotent so racing teardown paths cannot
// double-write.
type Watermark struct {
	store   ReadMarkStore
	clock   clock.Clock
	eventID string

	mu     sync.Mutex
	marked bool
}

func NewWatermark(store ReadMarkStore, clk clock.Clock, eventID string) *Watermark {
	return &Watermark{store: store, clock: clk, eventID: eventID}
}

func (w *Watermark) MarkReadOnExit(ctx context.Context) {
	w.mu.Lock()
	if w.marked {
		w.mu.Unlock()
		return
	}
	w.marked = true
	w.mu.Unlock()

	// Best effort. Storage keeps the max of old and new marks, so a
	// failed write only means the unread count stays until next visit.
	_ = w.store.UpsertReadMark(ctx, types.MarkRead{EventID: w.eventID}, w.clock.Now())
}
