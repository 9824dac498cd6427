package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/types"
)

func (c *Cockroach) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Created, error) {
	var out types.Created

	// created_at is assigned by the server and is the authoritative
	// ordering key; the id only breaks ties.
	const q = `
		INSERT INTO messages (id, event_id, user_id, text)
		VALUES (@message_id, @event_id, @user_id, @text)
		RETURNING id, created_at
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"message_id": id.Generate(),
		"event_id":   in.EventID,
		"user_id":    in.LoggedInUserID(),
		"text":       in.Text,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert message: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Created])
	if err != nil {
		return out, fmt.Errorf("sql collect inserted message: %w", err)
	}

	return out, nil
}

// Messages returns a page of the event's messages in ascending timestamp
// order, with author nicks joined in.
func (c *Cockroach) Messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]

	query := `
		SELECT messages.*, users.nick AS user_nick
		FROM messages
		INNER JOIN users ON messages.user_id = users.id
		WHERE messages.event_id = @event_id
	`
	args := pgx.NamedArgs{
		"event_id": in.EventID,
	}

	if in.PageArgs.After != nil {
		cursor, err := DecodeCursor(*in.PageArgs.After)
		if err != nil {
			return out, err
		}

		query += ` AND (messages.created_at, messages.id) > (@after_created_at, @after_id)`
		args["after_created_at"] = cursor.CreatedAt
		args["after_id"] = cursor.ID
	}

	limit := uint(defaultPageSize)
	if in.PageArgs.First != nil {
		limit = *in.PageArgs.First
	}

	query += ` ORDER BY messages.created_at ASC, messages.id ASC LIMIT @limit`
	args["limit"] = limit + 1

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select messages: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return out, fmt.Errorf("sql collect messages: %w", err)
	}

	if uint(len(items)) > limit {
		items = items[:limit]
		out.PageInfo.HasNextPage = true
	}

	if len(items) != 0 {
		last := items[len(items)-1]
		endCursor, err := EncodeCursor(Cursor{ID: last.ID, CreatedAt: last.CreatedAt})
		if err != nil {
			return out, err
		}
		out.PageInfo.EndCursor = &endCursor
	}

	out.Items = items
	return out, nil
}

// EventMessages returns the full ordered message snapshot for an event.
// This backs the live feed, which rebuilds its list on every change tick.
func (c *Cockroach) EventMessages(ctx context.Context, eventID string) ([]types.Message, error) {
	const q = `
		SELECT messages.*
		FROM messages
		WHERE messages.event_id = @event_id
		ORDER BY messages.created_at ASC, messages.id ASC
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select event messages: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return nil, fmt.Errorf("sql collect event messages: %w", err)
	}

	return out, nil
}

// LatestMessage returns the newest message of an event, or false when the
// chat is still empty.
func (c *Cockroach) LatestMessage(ctx context.Context, eventID string) (types.Message, bool, error) {
	var out types.Message

	const q = `
		SELECT messages.*
		FROM messages
		WHERE messages.event_id = @event_id
		ORDER BY messages.created_at DESC, messages.id DESC
		LIMIT 1
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
	})
	if err != nil {
		return out, false, fmt.Errorf("sql select latest message: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return out, false, fmt.Errorf("sql collect latest message: %w", err)
	}

	if len(items) == 0 {
		return out, false, nil
	}

	return items[0], true, nil
}

// UnreadCount counts messages after the user's read watermark, excluding
// their own. Without a watermark every message from others is unread.
func (c *Cockroach) UnreadCount(ctx context.Context, eventID, userID string) (int, error) {
	var count int

	const q = `
		SELECT count(*)
		FROM messages
		WHERE messages.event_id = @event_id
			AND messages.user_id != @user_id
			AND messages.created_at > COALESCE((
				SELECT last_read_at
				FROM read_marks
				WHERE read_marks.event_id = @event_id
					AND read_marks.user_id = @user_id
			), 'epoch'::TIMESTAMPTZ)
	`

	err := c.db.QueryRow(ctx, q, pgx.StrictNamedArgs{
		"event_id": eventID,
		"user_id":  userID,
	}).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sql count unread messages: %w", err)
	}

	return count, nil
}
