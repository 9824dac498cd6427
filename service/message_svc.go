package service

import (
	"context"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/chat"
	"github.com/gatherapp/gather/types"
)

// ErrNotParticipant denotes chat access without having joined the event.
var ErrNotParticipant = errs.PermissionDeniedError("join the event to access its chat")

func (s *Service) SendMessage(ctx context.Context, in types.CreateMessage) (types.Created, error) {
	var out types.Created

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return out, err
	}

	if err := s.ensureParticipant(ctx, in.EventID, user.ID); err != nil {
		return out, err
	}

	out, err := s.Cockroach.CreateMessage(ctx, in)
	if err != nil {
		return out, err
	}

	s.Livefeed.NotifyMessages(in.EventID)

	// An open chat session runs the sender's typing heartbeat; pre-empt
	// it so the indicator drops with the message, not 3s later.
	if sess, ok := s.chats.Get(user.ID, in.EventID); ok {
		sess.MessageSent()
	}

	// Sending a message makes the typing record moot; retract it rather
	// than waiting for the heartbeat's inactivity timeout.
	s.background(func(ctx context.Context) error {
		clear := types.ClearTypingPresence{EventID: in.EventID}
		clear.SetLoggedInUserID(user.ID)
		if err := s.Cockroach.ClearTypingPresence(ctx, clear); err != nil {
			return err
		}
		s.Livefeed.NotifyTyping(in.EventID)
		return nil
	})

	return out, nil
}

func (s *Service) Messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return out, err
	}

	if err := s.ensureParticipant(ctx, in.EventID, user.ID); err != nil {
		return out, err
	}

	return s.Cockroach.Messages(ctx, in)
}

// ErrNoOpenChat denotes chat input for an event the user has no open
// session on.
var ErrNoOpenChat = errs.NotFoundError("no open chat session")

// ChatHooks are the callbacks a chat session drives.
type ChatHooks struct {
	OnFeed   func([]chat.FeedItem)
	OnError  func(error)
	OnScroll func()
}

// ChatSession is an open chat session together with its registry entry,
// which routes chat input endpoints to it until Close.
type ChatSession struct {
	svc     *Service
	userID  string
	eventID string
	session *chat.Session
}

func (c *ChatSession) Close(ctx context.Context) {
	c.svc.chats.Remove(c.userID, c.eventID, c.session)
	c.session.Close(ctx)
}

// OpenChat attaches the logged-in user to an event's live chat. The
// returned session must be closed when the user leaves the screen. A
// previous session of the same user on the same event is torn down.
func (s *Service) OpenChat(ctx context.Context, eventID string, hooks ChatHooks) (*ChatSession, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, errs.Unauthenticated
	}

	in := types.RetrieveEvent{EventID: eventID}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureParticipant(ctx, eventID, user.ID); err != nil {
		return nil, err
	}

	session, err := chat.Open(ctx, chat.SessionOptions{
		Store:    s.Cockroach,
		Feeds:    s.Livefeed,
		Viewing:  s.Viewing,
		Clock:    s.clock,
		EventID:  eventID,
		UserID:   user.ID,
		Nick:     user.Nick,
		OnFeed:   hooks.OnFeed,
		OnError:  hooks.OnError,
		OnScroll: hooks.OnScroll,
	})
	if err != nil {
		return nil, err
	}

	if old := s.chats.Put(user.ID, eventID, session); old != nil {
		old.Close(s.baseCtx)
	}

	return &ChatSession{
		svc:     s,
		userID:  user.ID,
		eventID: eventID,
		session: session,
	}, nil
}

// ChatEdit reports a keystroke in the event's open chat. The session's
// heartbeat decides whether that means a fresh typing record write.
func (s *Service) ChatEdit(ctx context.Context, eventID string) error {
	sess, err := s.openChatSession(ctx, eventID)
	if err != nil {
		return err
	}
	sess.OnLocalEdit()
	return nil
}

// ChatSetAtBottom reports the reader's scroll position in the event's
// open chat. While not at the bottom, auto-scroll stays off.
func (s *Service) ChatSetAtBottom(ctx context.Context, eventID string, atBottom bool) error {
	sess, err := s.openChatSession(ctx, eventID)
	if err != nil {
		return err
	}
	sess.SetAtBottom(atBottom)
	return nil
}

func (s *Service) openChatSession(ctx context.Context, eventID string) (*chat.Session, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, errs.Unauthenticated
	}

	in := types.RetrieveEvent{EventID: eventID}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sess, ok := s.chats.Get(user.ID, eventID)
	if !ok {
		return nil, ErrNoOpenChat
	}
	return sess, nil
}

func (s *Service) ensureParticipant(ctx context.Context, eventID, userID string) error {
	ev, err := s.Cockroach.Event(ctx, eventID)
	if err != nil {
		return err
	}
	if !ev.HasParticipant(userID) {
		return ErrNotParticipant
	}
	return nil
}
