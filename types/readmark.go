package types

import (
	"time"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/validator"
)

// ReadMark is the per-user "read up to" watermark for one event chat.
// It only ever moves forward; the storage layer enforces that with a
// greatest-wins upsert so lagging device clocks cannot regress it.
type ReadMark struct {
	EventID    string    `db:"event_id"`
	UserID     string    `db:"user_id"`
	LastReadAt time.Time `db:"last_read_at"`
}

type MarkRead struct {
	EventID string

	loggedInUserID string
}

func (in *MarkRead) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in MarkRead) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *MarkRead) Validate() error {
	v := validator.New()

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}

	return v.AsError()
}
