package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gatherapp/gather/livefeed"
	"github.com/gatherapp/gather/types"
)

// MessageSource is the storage surface the watcher needs. Implemented by
// the cockroach layer.
type MessageSource interface {
	LatestMessage(ctx context.Context, eventID string) (types.Message, bool, error)
	UserNick(ctx context.Context, userID string) (string, error)
}

// Subscriber is the live-update surface the watcher needs. Implemented by
// the livefeed broker.
type Subscriber interface {
	SubscribeMessages(eventID string, fn func()) (livefeed.Subscription, error)
}

// Watcher follows the latest message of every joined event and presents a
// notification for new peer messages, unless the chat is currently open.
type Watcher struct {
	source   MessageSource
	feeds    Subscriber
	notifier Notifier
	viewing  *ViewingContext
	selfID   string
	logger   *slog.Logger

	mu      sync.Mutex
	watches map[string]*watch
}

type watch struct {
	sub    livefeed.Subscription
	title  string
	lastID string
}

func NewWatcher(source MessageSource, feeds Subscriber, notifier Notifier, viewing *ViewingContext, selfID string, logger *slog.Logger) *Watcher {
	return &Watcher{
		source:   source,
		feeds:    feeds,
		notifier: notifier,
		viewing:  viewing,
		selfID:   selfID,
		logger:   logger,
		watches:  map[string]*watch{},
	}
}

// Watch starts following an event's chat. The current latest message is
// taken as the baseline, so only messages arriving after Watch notify.
// Watching an already watched event is a no-op.
func (w *Watcher) Watch(ctx context.Context, eventID, eventTitle string) error {
	w.mu.Lock()
	if _, ok := w.watches[eventID]; ok {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	latest, ok, err := w.source.LatestMessage(ctx, eventID)
	if err != nil {
		return fmt.Errorf("latest message: %w", err)
	}

	wa := &watch{title: eventTitle}
	if ok {
		wa.lastID = latest.ID
	}

	sub, err := w.feeds.SubscribeMessages(eventID, func() {
		w.onTick(eventID)
	})
	if err != nil {
		return fmt.Errorf("subscribe messages: %w", err)
	}
	wa.sub = sub

	w.mu.Lock()
	w.watches[eventID] = wa
	w.mu.Unlock()
	return nil
}

// Unwatch stops following an event's chat.
func (w *Watcher) Unwatch(eventID string) {
	w.mu.Lock()
	wa, ok := w.watches[eventID]
	if ok {
		delete(w.watches, eventID)
	}
	w.mu.Unlock()

	if ok {
		_ = wa.sub.Unsubscribe()
	}
}

// Close stops every watch.
func (w *Watcher) Close() {
	w.mu.Lock()
	watches := w.watches
	w.watches = map[string]*watch{}
	w.mu.Unlock()

	for _, wa := range watches {
		_ = wa.sub.Unsubscribe()
	}
}

func (w *Watcher) onTick(eventID string) {
	ctx := context.Background()

	msg, ok, err := w.source.LatestMessage(ctx, eventID)
	if err != nil {
		w.logger.Error("watch latest message", "event_id", eventID, "error", err)
		return
	}
	if !ok {
		return
	}

	w.mu.Lock()
	wa, tracked := w.watches[eventID]
	if !tracked || wa.lastID == msg.ID {
		w.mu.Unlock()
		return
	}
	wa.lastID = msg.ID
	title := wa.title
	w.mu.Unlock()

	if msg.UserID == w.selfID {
		return
	}
	if w.viewing.Viewing(w.selfID, eventID) {
		return
	}

	nick, err := w.source.UserNick(ctx, msg.UserID)
	if err != nil {
		nick = "Someone"
	}

	err = w.notifier.Present(ctx, Notification{
		Title:   title,
		Body:    fmt.Sprintf("%s: %s", nick, msg.Text),
		EventID: eventID,
	})
	if err != nil {
		w.logger.Error("present message notification", "event_id", eventID, "error", err)
	}
}
