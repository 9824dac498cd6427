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

func (c *Cockroach) User(ctx context.Context, userID string) (types.User, error) {
	var out types.User

	const q = `
		SELECT users.*
		FROM users
		WHERE users.id = @user_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if db.IsNotFoundError(err) {
		return out, errs.NotFoundError("user not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect user: %w", err)
	}

	return out, nil
}

// UserNick resolves just the display nick. Used as the cache-miss fallback
// when rendering message authors.
func (c *Cockroach) UserNick(ctx context.Context, userID string) (string, error) {
	var nick string

	const q = `
		SELECT nick
		FROM users
		WHERE id = @user_id
	`

	err := c.db.QueryRow(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	}).Scan(&nick)
	if db.IsNotFoundError(err) {
		return "", errs.NotFoundError("user not found")
	}

	if err != nil {
		return "", fmt.Errorf("sql select user nick: %w", err)
	}

	return nick, nil
}

// UpsertUserByEmail returns the user with the given email, creating them
// on first login. The nick defaults to the email local part.
func (c *Cockroach) UpsertUserByEmail(ctx context.Context, email, nick string) (types.User, error) {
	var out types.User

	const q = `
		INSERT INTO users (id, email, nick)
		VALUES (@user_id, @email, @nick)
		ON CONFLICT (email)
		DO UPDATE SET updated_at = now()
		RETURNING users.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": id.Generate(),
		"email":   email,
		"nick":    nick,
	})
	if err != nil {
		return out, fmt.Errorf("sql upsert user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if err != nil {
		return out, fmt.Errorf("sql collect upserted user: %w", err)
	}

	return out, nil
}

func (c *Cockroach) UpdateUser(ctx context.Context, in types.UpdateUser) (types.User, error) {
	var out types.User

	const q = `
		UPDATE users
		SET nick = @nick,
			description = @description,
			favorite_categories = @favorite_categories,
			updated_at = now()
		WHERE id = @user_id
		RETURNING users.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id":             in.LoggedInUserID(),
		"nick":                in.Nick,
		"description":         in.Description,
		"favorite_categories": in.FavoriteCategories,
	})
	if err != nil {
		return out, fmt.Errorf("sql update user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if db.IsNotFoundError(err) {
		return out, errs.NotFoundError("user not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect updated user: %w", err)
	}

	return out, nil
}
