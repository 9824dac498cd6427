package types

import (
	"time"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/validator"
)

// TypingPresence is an ephemeral per-user marker that the user is composing
// a message. It is client-reported and best-effort: readers must treat a
// record older than the staleness threshold as absent.
type TypingPresence struct {
	EventID  string    `db:"event_id"`
	UserID   string    `db:"user_id"`
	Nick     string    `db:"nick"`
	LastSeen time.Time `db:"last_seen"`
}

type RefreshTypingPresence struct {
	EventID string
	Nick    string

	loggedInUserID string
}

func (in *RefreshTypingPresence) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in RefreshTypingPresence) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *RefreshTypingPresence) Validate() error {
	v := validator.New()

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}

	return v.AsError()
}

type ClearTypingPresence struct {
	EventID string

	loggedInUserID string
}

func (in *ClearTypingPresence) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ClearTypingPresence) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ClearTypingPresence) Validate() error {
	v := validator.New()

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}

	return v.AsError()
}
