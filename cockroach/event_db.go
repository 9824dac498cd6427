package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/types"
)

func (c *Cockroach) CreateEvent(ctx context.Context, in types.CreateEvent) (types.Created, error) {
	var out types.Created

	// The organizer joins their own event right away so the group chat
	// exists with at least one participant.
	const q = `
		INSERT INTO events (id, title, description, category, date, time, address, latitude, longitude, user_id, participants)
		VALUES (@event_id, @title, @description, @category, @date, @time, @address, @latitude, @longitude, @user_id, ARRAY[@user_id])
		RETURNING id, created_at
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"event_id":    id.Generate(),
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"date":        in.Date,
		"time":        in.Time,
		"address":     in.Address,
		"latitude":    in.Latitude,
		"longitude":   in.Longitude,
		"user_id":     in.LoggedInUserID(),
	})
	if err != nil {
		return out, fmt.Errorf("sql insert event: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Created])
	if err != nil {
		return out, fmt.Errorf("sql collect inserted event: %w", err)
	}

	return out, nil
}

func (c *Cockroach) Event(ctx context.Context, eventID string) (types.Event, error) {
	var out types.Event

	const q = `
		SELECT events.*
		FROM events
		WHERE events.id = @event_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select event: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Event])
	if db.IsNotFoundError(err) {
		return out, errs.NotFoundError("event not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect event: %w", err)
	}

	return out, nil
}

// Events lists all events. Category and date filters run in SQL; distance
// filtering and sorting happen in the service layer where the viewer
// position lives.
func (c *Cockroach) Events(ctx context.Context, in types.ListEvents) ([]types.Event, error) {
	query := `
		SELECT events.*
		FROM events
		WHERE true
	`
	args := pgx.NamedArgs{}

	if in.Category != nil {
		query += " AND events.category = @category"
		args["category"] = *in.Category
	}
	if in.Date != nil {
		query += " AND events.date = @date"
		args["date"] = *in.Date
	}

	query += " ORDER BY events.date ASC, events.time ASC"

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("sql select events: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Event])
	if err != nil {
		return nil, fmt.Errorf("sql collect events: %w", err)
	}

	return out, nil
}

// JoinedEvents lists events whose participant set contains the user.
func (c *Cockroach) JoinedEvents(ctx context.Context, userID string) ([]types.Event, error) {
	const q = `
		SELECT events.*
		FROM events
		WHERE @user_id = ANY (events.participants)
		ORDER BY events.date ASC, events.time ASC
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select joined events: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Event])
	if err != nil {
		return nil, fmt.Errorf("sql collect joined events: %w", err)
	}

	return out, nil
}

// ToggleJoinEvent atomically adds or removes the user from the participant
// set. Membership is mutated with array set operations so concurrent
// toggles never clobber each other.
func (c *Cockroach) ToggleJoinEvent(ctx context.Context, in types.ToggleJoinEvent) (types.ToggleJoinEventOutput, error) {
	var out types.ToggleJoinEventOutput
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		joined, err := c.eventHasParticipant(ctx, in.EventID, in.LoggedInUserID())
		if err != nil {
			return err
		}

		if joined {
			if err := c.removeParticipant(ctx, in.EventID, in.LoggedInUserID()); err != nil {
				return err
			}
		} else {
			if err := c.addParticipant(ctx, in.EventID, in.LoggedInUserID()); err != nil {
				return err
			}
		}

		count, err := c.participantsCount(ctx, in.EventID)
		if err != nil {
			return err
		}

		out = types.ToggleJoinEventOutput{
			Joined:            !joined,
			ParticipantsCount: count,
		}
		return nil
	})
}

func (c *Cockroach) eventHasParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	var joined bool

	const q = `
		SELECT @user_id = ANY (participants)
		FROM events
		WHERE id = @event_id
	`

	err := c.db.QueryRow(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
		"user_id":  userID,
	}).Scan(&joined)
	if db.IsNotFoundError(err) {
		return false, errs.NotFoundError("event not found")
	}

	if err != nil {
		return false, fmt.Errorf("sql select event participant: %w", err)
	}

	return joined, nil
}

func (c *Cockroach) addParticipant(ctx context.Context, eventID, userID string) error {
	const q = `
		UPDATE events
		SET participants = array_append(participants, @user_id)
		WHERE id = @event_id
			AND NOT @user_id = ANY (participants)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
		"user_id":  userID,
	})
	if err != nil {
		return fmt.Errorf("sql add event participant: %w", err)
	}

	return nil
}

func (c *Cockroach) removeParticipant(ctx context.Context, eventID, userID string) error {
	const q = `
		UPDATE events
		SET participants = array_remove(participants, @user_id)
		WHERE id = @event_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
		"user_id":  userID,
	})
	if err != nil {
		return fmt.Errorf("sql remove event participant: %w", err)
	}

	return nil
}

func (c *Cockroach) participantsCount(ctx context.Context, eventID string) (int, error) {
	var count int

	const q = `
		SELECT array_length(participants, 1)
		FROM events
		WHERE id = @event_id
	`

	var length *int
	err := c.db.QueryRow(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
	}).Scan(&length)
	if err != nil {
		return 0, fmt.Errorf("sql select participants count: %w", err)
	}

	if length != nil {
		count = *length
	}

	return count, nil
}
