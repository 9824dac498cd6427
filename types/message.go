package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/validator"
)

// MaxMessageLength is enforced before any write is attempted.
const MaxMessageLength = 500

type Message struct {
	ID        string    `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"eventID"`
	UserID    string    `db:"user_id" json:"userID"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// UserNick is resolved at render time, not persisted with the message.
	UserNick string `db:"-" json:"userNick,omitempty"`
}

type CreateMessage struct {
	EventID string
	Text    string

	loggedInUserID string
}

func (in *CreateMessage) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateMessage) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateMessage) Validate() error {
	v := validator.New()

	in.Text = strings.TrimSpace(in.Text)

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}
	if in.Text == "" {
		v.AddError("Text", "Text is required")
	}
	if utf8.RuneCountInString(in.Text) > MaxMessageLength {
		v.AddError("Text", "Text must be at most 500 characters")
	}

	return v.AsError()
}

type ListMessages struct {
	EventID  string
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListMessages) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListMessages) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListMessages) Validate() error {
	v := validator.New()

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}
	if err := in.PageArgs.Validate(); err != nil {
		v.AddError("PageArgs", err.Error())
	}

	return v.AsError()
}
