package service

import (
	"context"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/types"
)

// TypingPing creates or refreshes the caller's typing record for an
// event. Clients call it on the first keystroke and then on a heartbeat
// while composing.
func (s *Service) TypingPing(ctx context.Context, in types.RefreshTypingPresence) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	in.Nick = user.Nick
	if err := in.Validate(); err != nil {
		return err
	}

	if err := s.ensureParticipant(ctx, in.EventID, user.ID); err != nil {
		return err
	}

	if err := s.Cockroach.RefreshTypingPresence(ctx, in); err != nil {
		return err
	}

	s.Livefeed.NotifyTyping(in.EventID)
	return nil
}

// TypingStop retracts the caller's typing record. Stopping when no record
// exists is fine.
func (s *Service) TypingStop(ctx context.Context, in types.ClearTypingPresence) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return err
	}

	if err := s.Cockroach.ClearTypingPresence(ctx, in); err != nil {
		return err
	}

	s.Livefeed.NotifyTyping(in.EventID)
	return nil
}
