package cockroach

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nicolasparada/go-db"

	"github.com/gatherapp/gather/types"
)

// UpsertReadMark moves the user's watermark forward. GREATEST keeps the
// watermark monotonic even when concurrent device sessions race or a
// device clock lags.
func (c *Cockroach) UpsertReadMark(ctx context.Context, in types.MarkRead, at time.Time) error {
	const q = `
		INSERT INTO read_marks (event_id, user_id, last_read_at)
		VALUES (@event_id, @user_id, @last_read_at)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET last_read_at = GREATEST(read_marks.last_read_at, excluded.last_read_at)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"event_id":     in.EventID,
		"user_id":      in.LoggedInUserID(),
		"last_read_at": at,
	})
	if err != nil {
		return fmt.Errorf("sql upsert read mark: %w", err)
	}

	return nil
}

// ReadMark returns the user's watermark for an event, or nil when the user
// never opened the chat.
func (c *Cockroach) ReadMark(ctx context.Context, eventID, userID string) (*time.Time, error) {
	const q = `
		SELECT last_read_at
		FROM read_marks
		WHERE event_id = @event_id
			AND user_id = @user_id
	`

	var lastReadAt time.Time
	err := c.db.QueryRow(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
		"user_id":  userID,
	}).Scan(&lastReadAt)
	if db.IsNotFoundError(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("sql select read mark: %w", err)
	}

	return &lastReadAt, nil
}
