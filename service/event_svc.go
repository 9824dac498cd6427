package service

import (
	"context"
	"slices"
	"time"

	"github.com/hako/durafmt"
	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/geo"
	"github.com/gatherapp/gather/types"
)

func (s *Service) CreateEvent(ctx context.Context, in types.CreateEvent) (types.Created, error) {
	var out types.Created

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return out, err
	}

	out, err := s.Cockroach.CreateEvent(ctx, in)
	if err != nil {
		return out, err
	}

	// The organizer joins their own event on creation.
	s.Reminders.Schedule(types.Event{
		ID:    out.ID,
		Title: in.Title,
		Date:  in.Date,
		Time:  in.Time,
	})

	return out, nil
}

func (s *Service) Event(ctx context.Context, in types.RetrieveEvent) (types.Event, error) {
	var out types.Event

	if _, ok := auth.UserFromContext(ctx); !ok {
		return out, errs.Unauthenticated
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	out, err := s.Cockroach.Event(ctx, in.EventID)
	if err != nil {
		return out, err
	}

	out.CreatedAgo = s.timeAgo(out.CreatedAt)
	return out, nil
}

// Events lists upcoming events with the requested filters applied. Past
// events never show up in browsing; they only surface as archived
// conversations.
func (s *Service) Events(ctx context.Context, in types.ListEvents) ([]types.Event, error) {
	if _, ok := auth.UserFromContext(ctx); !ok {
		return nil, errs.Unauthenticated
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	evs, err := s.Cockroach.Events(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	evs = slices.DeleteFunc(evs, func(ev types.Event) bool {
		return ev.Archived(now)
	})

	if in.Latitude != nil && in.Longitude != nil {
		for i := range evs {
			d := geo.DistanceKM(*in.Latitude, *in.Longitude, evs[i].Latitude, evs[i].Longitude)
			evs[i].DistanceKM = &d
		}
	}

	if in.MaxDistanceKM != nil {
		evs = slices.DeleteFunc(evs, func(ev types.Event) bool {
			return ev.DistanceKM == nil || *ev.DistanceKM > *in.MaxDistanceKM
		})
	}

	if in.Sort != nil && *in.Sort == types.EventSortNearest {
		slices.SortStableFunc(evs, func(a, b types.Event) int {
			switch {
			case *a.DistanceKM < *b.DistanceKM:
				return -1
			case *a.DistanceKM > *b.DistanceKM:
				return 1
			default:
				return 0
			}
		})
	}

	for i := range evs {
		evs[i].CreatedAgo = s.timeAgo(evs[i].CreatedAt)
	}

	return evs, nil
}

func (s *Service) ToggleJoinEvent(ctx context.Context, in types.ToggleJoinEvent) (types.ToggleJoinEventOutput, error) {
	var out types.ToggleJoinEventOutput

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(user.ID)
	if err := in.Validate(); err != nil {
		return out, err
	}

	out, err := s.Cockroach.ToggleJoinEvent(ctx, in)
	if err != nil {
		return out, err
	}

	if out.Joined {
		s.background(func(ctx context.Context) error {
			ev, err := s.Cockroach.Event(ctx, in.EventID)
			if err != nil {
				return err
			}
			s.Reminders.Schedule(ev)
			return nil
		})
	} else {
		s.Reminders.Cancel(in.EventID)

		// Leaving the event also retracts any lingering typing record.
		s.background(func(ctx context.Context) error {
			clear := types.ClearTypingPresence{EventID: in.EventID}
			clear.SetLoggedInUserID(user.ID)
			if err := s.Cockroach.ClearTypingPresence(ctx, clear); err != nil {
				return err
			}
			s.Livefeed.NotifyTyping(in.EventID)
			return nil
		})
	}

	return out, nil
}

func (s *Service) timeAgo(t time.Time) string {
	d := s.clock.Now().Sub(t)
	if d < time.Minute {
		return "just now"
	}
	return durafmt.Parse(d).LimitFirstN(1).String() + " ago"
}
