package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherapp/gather/types"
)

// RefreshTypingPresence creates or refreshes the caller's typing record.
// Only the owning user ever writes their own record.
func (c *Cockroach) RefreshTypingPresence(ctx context.Context, in types.RefreshTypingPresence) error {
	const q = `
		INSERT INTO typing_presences (event_id, user_id, nick, last_seen)
		VALUES (@event_id, @user_id, @nick, now())
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET nick = @nick, last_seen = now()
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"event_id": in.EventID,
		"user_id":  in.LoggedInUserID(),
		"nick":     in.Nick,
	})
	if err != nil {
		return fmt.Errorf("sql upsert typing presence: %w", err)
	}

	return nil
}

// ClearTypingPresence deletes the caller's typing record. Deleting a record
// that does not exist is a no-op.
func (c *Cockroach) ClearTypingPresence(ctx context.Context, in types.ClearTypingPresence) error {
	const q = `
		DELETE FROM typing_presences
		WHERE event_id = @event_id
			AND user_id = @user_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"event_id": in.EventID,
		"user_id":  in.LoggedInUserID(),
	})
	if err != nil {
		return fmt.Errorf("sql delete typing presence: %w", err)
	}

	return nil
}

// TypingPresences returns every typing record for the event, fresh or not.
// Staleness filtering is the aggregator's job.
func (c *Cockroach) TypingPresences(ctx context.Context, eventID string) ([]types.TypingPresence, error) {
	const q = `
		SELECT typing_presences.*
		FROM typing_presences
		WHERE typing_presences.event_id = @event_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select typing presences: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.TypingPresence])
	if err != nil {
		return nil, fmt.Errorf("sql collect typing presences: %w", err)
	}

	return out, nil
}
