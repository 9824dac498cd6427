package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gatherapp/gather/livefeed"
	"github.com/gatherapp/gather/types"
)

type fakeSource struct {
	mu     sync.Mutex
	latest map[string]types.Message
	nicks  map[string]string
}

func (s *fakeSource) LatestMessage(ctx context.Context, eventID string) (types.Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.latest[eventID]
	return msg, ok, nil
}

func (s *fakeSource) UserNick(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nicks[userID], nil
}

func (s *fakeSource) setLatest(eventID string, msg types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[eventID] = msg
}

type fakeSubscriber struct {
	mu    sync.Mutex
	ticks map[string]func()
}

type fakeSubscription struct{}

func (fakeSubscription) Unsubscribe() error { return nil }

func (f *fakeSubscriber) SubscribeMessages(eventID string, fn func()) (livefeed.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks[eventID] = fn
	return fakeSubscription{}, nil
}

func (f *fakeSubscriber) tick(eventID string) {
	f.mu.Lock()
	fn := f.ticks[eventID]
	f.mu.Unlock()
	fn()
}

func newTestWatcher(source *fakeSource, feeds *fakeSubscriber, viewing *ViewingContext) (*Watcher, *notifierLog) {
	notifier := &notifierLog{}
	w := NewWatcher(source, feeds, notifier, viewing, "me", discardLogger())
	return w, notifier
}

func Test_Watcher_NotifiesOnPeerMessage(t *testing.T) {
	source := &fakeSource{latest: map[string]types.Message{}, nicks: map[string]string{"u1": "alice"}}
	feeds := &fakeSubscriber{ticks: map[string]func(){}}
	w, notifier := newTestWatcher(source, feeds, NewViewingContext())
	defer w.Close()

	if err := w.Watch(context.Background(), "ev1", "Board games night"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	source.setLatest("ev1", types.Message{ID: "m1", EventID: "ev1", UserID: "u1", Text: "anyone up?", CreatedAt: time.Now()})
	feeds.tick("ev1")

	if got := notifier.count(); got != 1 {
		t.Fatalf("want 1 notification; got %d", got)
	}

	notifier.mu.Lock()
	n := notifier.presented[0]
	notifier.mu.Unlock()
	if n.Title != "Board games night" {
		t.Errorf("want the event title; got %q", n.Title)
	}
	if n.Body != "alice: anyone up?" {
		t.Errorf("want nick-prefixed body; got %q", n.Body)
	}
}

func Test_Watcher_BaselineDoesNotNotify(t *testing.T) {
	source := &fakeSource{
		latest: map[string]types.Message{
			"ev1": {ID: "m1", EventID: "ev1", UserID: "u1", Text: "old news"},
		},
		nicks: map[string]string{"u1": "alice"},
	}
	feeds := &fakeSubscriber{ticks: map[string]func(){}}
	w, notifier := newTestWatcher(source, feeds, NewViewingContext())
	defer w.Close()

	if err := w.Watch(context.Background(), "ev1", "Board games night"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	// A tick that re-delivers the message that existed at Watch time.
	feeds.tick("ev1")

	if got := notifier.count(); got != 0 {
		t.Errorf("want the baseline message skipped; got %d", got)
	}
}

func Test_Watcher_SkipsOwnMessages(t *testing.T) {
	source := &fakeSource{latest: map[string]types.Message{}, nicks: map[string]string{}}
	feeds := &fakeSubscriber{ticks: map[string]func(){}}
	w, notifier := newTestWatcher(source, feeds, NewViewingContext())
	defer w.Close()

	if err := w.Watch(context.Background(), "ev1", "Board games night"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	source.setLatest("ev1", types.Message{ID: "m1", EventID: "ev1", UserID: "me", Text: "my own"})
	feeds.tick("ev1")

	if got := notifier.count(); got != 0 {
		t.Errorf("want own messages skipped; got %d", got)
	}
}

func Test_Watcher_NotifiesWhileAnotherUserIsViewing(t *testing.T) {
	source := &fakeSource{latest: map[string]types.Message{}, nicks: map[string]string{"u1": "alice"}}
	feeds := &fakeSubscriber{ticks: map[string]func(){}}
	viewing := NewViewingContext()
	w, notifier := newTestWatcher(source, feeds, viewing)
	defer w.Close()

	if err := w.Watch(context.Background(), "ev1", "Board games night"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Someone else has ev1's chat open. That must not mute us.
	viewing.Enter("u1", "ev1")
	source.setLatest("ev1", types.Message{ID: "m1", EventID: "ev1", UserID: "u1", Text: "hi"})
	feeds.tick("ev1")

	if got := notifier.count(); got != 1 {
		t.Errorf("want 1 notification; got %d", got)
	}
}

func Test_Watcher_SkipsWhileViewing(t *testing.T) {
	source := &fakeSource{latest: map[string]types.Message{}, nicks: map[string]string{"u1": "alice"}}
	feeds := &fakeSubscriber{ticks: map[string]func(){}}
	viewing := NewViewingContext()
	w, notifier := newTestWatcher(source, feeds, viewing)
	defer w.Close()

	if err := w.Watch(context.Background(), "ev1", "Board games night"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	viewing.Enter("me", "ev1")
	source.setLatest("ev1", types.Message{ID: "m1", EventID: "ev1", UserID: "u1", Text: "hi"})
	feeds.tick("ev1")

	if got := notifier.count(); got != 0 {
		t.Fatalf("want no notification while the chat is open; got %d", got)
	}

	// The same message must not notify later either; it was seen.
	viewing.Leave("me", "ev1")
	feeds.tick("ev1")
	if got := notifier.count(); got != 0 {
		t.Errorf("want the seen message to stay silent; got %d", got)
	}
}
