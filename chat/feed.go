package chat

import (
	"context"
	"sync"

	"github.com/gatherapp/gather/types"
)

// NickResolver looks up a user's nick from storage. Implemented by the
// cockroach layer.
type NickResolver interface {
	UserNick(ctx context.Context, userID string) (string, error)
}

const unknownNick = "Someone"

// MemberCache memoizes user nicks for the lifetime of a chat session.
// Entries are never evicted or refreshed, so a rename shows up only on
// the next session. Safe for concurrent use.
type MemberCache struct {
	resolver NickResolver

	mu    sync.Mutex
	nicks map[string]string
}

func NewMemberCache(resolver NickResolver) *MemberCache {
	return &MemberCache{
		resolver: resolver,
		nicks:    map[string]string{},
	}
}

// Nick resolves and caches the nick for userID. Lookups that fail resolve
// to a placeholder without caching, so a later retry can still succeed.
func (c *MemberCache) Nick(ctx context.Context, userID string) string {
	c.mu.Lock()
	nick, ok := c.nicks[userID]
	c.mu.Unlock()
	if ok {
		return nick
	}

	nick, err := c.resolver.UserNick(ctx, userID)
	if err != nil {
		return unknownNick
	}

	c.mu.Lock()
	c.nicks[userID] = nick
	c.mu.Unlock()
	return nick
}

// FeedItem is one row of the chat feed: either a message or the trailing
// typing indicator. Exactly one field is set.
type FeedItem struct {
	Message *types.Message
	Typing  *TypingState
}

// ProjectFeed renders the feed rows for a message snapshot plus the
// current typing state. Messages keep storage order (oldest first) and
// the typing indicator, when present, is always the last row.
func ProjectFeed(msgs []types.Message, typing TypingState) []FeedItem {
	items := make([]FeedItem, 0, len(msgs)+1)
	for i := range msgs {
		items = append(items, FeedItem{Message: &msgs[i]})
	}
	if len(typing.Names) != 0 {
		items = append(items, FeedItem{Typing: &typing})
	}
	return items
}
