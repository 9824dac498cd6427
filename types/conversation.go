package types

// Conversation is one entry on the chats tab: an event the user joined,
// with its unread count derived from the user's read watermark.
type Conversation struct {
	EventID           string   `json:"eventID"`
	Title             string   `json:"title"`
	Date              string   `json:"date"`
	ParticipantsCount int      `json:"participantsCount"`
	UnreadCount       int      `json:"unreadCount"`
	Archived          bool     `json:"archived"`
	LastMessage       *Message `json:"lastMessage,omitempty"`
}

type ListConversations struct {
	loggedInUserID string
}

func (in *ListConversations) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListConversations) LoggedInUserID() string {
	return in.loggedInUserID
}
