package cockroach

import (
	"context"
	"time"

	"github.com/gatherapp/gather/types"
)

// Conversations builds the chats tab: every event the user joined, with
// its unread count and latest message. Archived classification against
// "now" happens here so the whole list is assembled in one transaction.
func (c *Cockroach) Conversations(ctx context.Context, in types.ListConversations, now time.Time) ([]types.Conversation, error) {
	var out []types.Conversation
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		events, err := c.JoinedEvents(ctx, in.LoggedInUserID())
		if err != nil {
			return err
		}

		for _, ev := range events {
			conv := types.Conversation{
				EventID:           ev.ID,
				Title:             ev.Title,
				Date:              ev.Date,
				ParticipantsCount: len(ev.Participants),
				Archived:          ev.Archived(now),
			}

			conv.UnreadCount, err = c.UnreadCount(ctx, ev.ID, in.LoggedInUserID())
			if err != nil {
				return err
			}

			if last, ok, err := c.LatestMessage(ctx, ev.ID); err != nil {
				return err
			} else if ok {
				conv.LastMessage = &last
			}

			out = append(out, conv)
		}

		return nil
	})
}
