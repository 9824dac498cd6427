package service

import (
	"context"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/types"
)

// Conversations lists the chats tab: every event the user joined, with
// unread counts and active/archived classification.
func (s *Service) Conversations(ctx context.Context) ([]types.Conversation, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, errs.Unauthenticated
	}

	var in types.ListConversations
	in.SetLoggedInUserID(user.ID)

	return s.Cockroach.Conversations(ctx, in, s.clock.Now())
}

// MarkRead advances the caller's read watermark for an event chat to now.
// Clients call it when leaving the chat screen.
func (s *Service) MarkRead(ctx context.Context, in types.MarkRead) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return err
	}

	return s.Cockroach.UpsertReadMark(ctx, in, s.clock.Now())
}
