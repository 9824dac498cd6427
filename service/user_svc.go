package service

import (
	"context"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/types"
)

func (s *Service) User(ctx context.Context, in types.RetrieveUser) (types.User, error) {
	var out types.User

	if _, ok := auth.UserFromContext(ctx); !ok {
		return out, errs.Unauthenticated
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	return s.Cockroach.User(ctx, in.UserID)
}

// UpdateUser edits the caller's profile: nick, description and favorite
// event categories.
func (s *Service) UpdateUser(ctx context.Context, in types.UpdateUser) (types.User, error) {
	var out types.User

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return out, err
	}

	return s.Cockroach.UpdateUser(ctx, in)
}
