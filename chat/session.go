package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gatherapp/gather/livefeed"
	"github.com/gatherapp/gather/types"
)

// Store is the storage surface a chat session needs. Implemented by the
// cockroach layer.
type Store interface {
	EventMessages(ctx context.Context, eventID string) ([]types.Message, error)
	TypingPresences(ctx context.Context, eventID string) ([]types.TypingPresence, error)
	RefreshTypingPresence(ctx context.Context, in types.RefreshTypingPresence) error
	ClearTypingPresence(ctx context.Context, in types.ClearTypingPresence) error
	UpsertReadMark(ctx context.Context, in types.MarkRead, at time.Time) error
	UserNick(ctx context.Context, userID string) (string, error)
}

// Feeds is the live-update surface a chat session needs. Implemented by
// the livefeed broker.
type Feeds interface {
	SubscribeMessages(eventID string, fn func()) (livefeed.Subscription, error)
	SubscribeTyping(eventID string, fn func()) (livefeed.Subscription, error)
	NotifyTyping(eventID string)
}

// Viewing lets the notifier know which chat the user currently has open,
// so it can skip that user's notifications for it. May be nil.
type Viewing interface {
	Enter(userID, eventID string)
	Leave(userID, eventID string)
}

// SessionOptions configures Open.
type SessionOptions struct {
	Store   Store
	Feeds   Feeds
	Viewing Viewing
	Clock   clock.Clock

	EventID string
	UserID  string
	Nick    string

	// OnFeed receives the full re-rendered feed on every change. Called
	// from subscription goroutines and timers; must be safe for that.
	OnFeed func([]FeedItem)
	// OnError is called at most once, on the first snapshot refresh
	// failure. The session keeps its last good state afterwards.
	OnError func(error)
	// OnScroll fires when the view should snap to the bottom.
	OnScroll func()
}

// Session is one user's live attachment to an event's group chat. It owns
// the typing heartbeat, the presence aggregation, the rendered feed, the
// read watermark and the scroll coordination for that attachment.
type Session struct {
	store   Store
	feeds   Feeds
	viewing Viewing
	eventID string
	userID  string

	presence  *Presence
	agg       *Aggregator
	members   *MemberCache
	watermark *Watermark
	scroll    *Scroll

	onFeed  func([]FeedItem)
	onError func(error)

	msgSub    livefeed.Subscription
	typingSub livefeed.Subscription

	mu      sync.Mutex
	msgs    []types.Message
	typing  TypingState
	errored bool
	closed  bool
}

// Open attaches to an event's chat: it subscribes to both live streams,
// loads the initial snapshots, and reports the user as viewing the event.
// The caller must Close the session when leaving the screen.
func Open(ctx context.Context, opts SessionOptions) (*Session, error) {
	s := &Session{
		store:   opts.Store,
		feeds:   opts.Feeds,
		viewing: opts.Viewing,
		eventID: opts.EventID,
		userID:  opts.UserID,
		onFeed:  opts.OnFeed,
		onError: opts.OnError,
	}

	s.members = NewMemberCache(opts.Store)
	s.watermark = NewWatermark(opts.Store, opts.Clock, opts.EventID)
	s.scroll = NewScroll(opts.Clock, opts.OnScroll)
	s.agg = NewAggregator(opts.UserID, opts.Clock, s.onTypingChange)
	s.presence = NewPresence(&presenceWriter{
		store:   opts.Store,
		feeds:   opts.Feeds,
		eventID: opts.EventID,
		userID:  opts.UserID,
		nick:    opts.Nick,
	}, opts.Clock)

	msgSub, err := opts.Feeds.SubscribeMessages(opts.EventID, func() {
		s.refreshMessages(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe messages: %w", err)
	}
	s.msgSub = msgSub

	typingSub, err := opts.Feeds.SubscribeTyping(opts.EventID, func() {
		s.refreshTyping(context.Background())
	})
	if err != nil {
		_ = msgSub.Unsubscribe()
		return nil, fmt.Errorf("subscribe typing: %w", err)
	}
	s.typingSub = typingSub

	s.refreshMessages(ctx)
	s.refreshTyping(ctx)

	if s.viewing != nil {
		s.viewing.Enter(opts.UserID, opts.EventID)
	}

	return s, nil
}

// OnLocalEdit forwards a local text-input change to the typing heartbeat.
func (s *Session) OnLocalEdit() {
	s.presence.OnLocalEdit()
}

// MessageSent tells the session the user's own message was accepted. The
// actual insert happens in the service; this only stops the heartbeat.
func (s *Session) MessageSent() {
	s.presence.OnMessageSent()
}

// SetAtBottom reports whether the user is scrolled to the feed's bottom.
func (s *Session) SetAtBottom(atBottom bool) {
	s.scroll.SetAtBottom(atBottom)
}

// Close tears the session down: unsubscribes, clears the typing record,
// advances the read watermark and drops the viewing claim. Idempotent.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.msgSub.Unsubscribe()
	_ = s.typingSub.Unsubscribe()

	s.presence.OnLeave()
	s.watermark.MarkReadOnExit(ctx)

	if s.viewing != nil {
		s.viewing.Leave(s.userID, s.eventID)
	}
}

func (s *Session) refreshMessages(ctx context.Context) {
	msgs, err := s.store.EventMessages(ctx, s.eventID)
	if err != nil {
		s.reportError(fmt.Errorf("refresh messages: %w", err))
		return
	}

	for i := range msgs {
		msgs[i].UserNick = s.members.Nick(ctx, msgs[i].UserID)
	}

	s.agg.ObserveMessages(msgs)

	s.mu.Lock()
	s.msgs = msgs
	items := ProjectFeed(s.msgs, s.typing)
	s.mu.Unlock()

	s.scroll.OnFeedChange(len(items))
	if s.onFeed != nil {
		s.onFeed(items)
	}
}

func (s *Session) refreshTyping(ctx context.Context) {
	presences, err := s.store.TypingPresences(ctx, s.eventID)
	if err != nil {
		// Typing state is cosmetic. Keep whatever we had.
		return
	}
	s.agg.SetPresences(presences)
}

// onTypingChange runs under the aggregator's lock, so it must not call
// back into the aggregator.
func (s *Session) onTypingChange(state TypingState) {
	s.mu.Lock()
	s.typing = state
	items := ProjectFeed(s.msgs, state)
	s.mu.Unlock()

	s.scroll.OnTypingChange(state.Active)
	s.scroll.OnFeedChange(len(items))
	if s.onFeed != nil {
		s.onFeed(items)
	}
}

func (s *Session) reportError(err error) {
	s.mu.Lock()
	already := s.errored
	s.errored = true
	s.mu.Unlock()

	if !already && s.onError != nil {
		s.onError(err)
	}
}

// presenceWriter adapts the store and broker into the heartbeat's
// PresenceStore: every write is followed by a typing tick so peers
// re-query without polling.
type presenceWriter struct {
	store   Store
	feeds   Feeds
	eventID string
	userID  string
	nick    string
}

func (w *presenceWriter) Refresh(ctx context.Context) error {
	in := types.RefreshTypingPresence{EventID: w.eventID, Nick: w.nick}
	in.SetLoggedInUserID(w.userID)
	if err := w.store.RefreshTypingPresence(ctx, in); err != nil {
		return err
	}
	w.feeds.NotifyTyping(w.eventID)
	return nil
}

func (w *presenceWriter) Clear(ctx context.Context) error {
	in := types.ClearTypingPresence{EventID: w.eventID}
	in.SetLoggedInUserID(w.userID)
	if err := w.store.ClearTypingPresence(ctx, in); err != nil {
		return err
	}
	w.feeds.NotifyTyping(w.eventID)
	return nil
}
