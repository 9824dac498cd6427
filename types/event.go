package types

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/validator"
)

const (
	eventDateLayout = "2006-01-02"
	eventTimeLayout = "15:04"
)

type EventCategory string

const (
	EventCategorySport      EventCategory = "sport"
	EventCategoryCulture    EventCategory = "culture"
	EventCategoryBoardGames EventCategory = "board_games"
	EventCategoryTravel     EventCategory = "travel"
	EventCategoryMovies     EventCategory = "movies"
	EventCategoryOther      EventCategory = "other"
)

var EventCategories = []EventCategory{
	EventCategorySport,
	EventCategoryCulture,
	EventCategoryBoardGames,
	EventCategoryTravel,
	EventCategoryMovies,
	EventCategoryOther,
}

func (c EventCategory) Valid() bool {
	return slices.Contains(EventCategories, c)
}

func (c EventCategory) String() string {
	return string(c)
}

type Event struct {
	ID           string        `db:"id" json:"id"`
	Title        string        `db:"title" json:"title"`
	Description  string        `db:"description" json:"description"`
	Category     EventCategory `db:"category" json:"category"`
	Date         string        `db:"date" json:"date"`
	Time         string        `db:"time" json:"time"`
	Address      string        `db:"address" json:"address"`
	Latitude     float64       `db:"latitude" json:"latitude"`
	Longitude    float64       `db:"longitude" json:"longitude"`
	UserID       string        `db:"user_id" json:"userID"`
	Participants []string      `db:"participants" json:"participants"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`

	// Derived for listings, not persisted.
	DistanceKM *float64 `db:"-" json:"distanceKM,omitempty"`
	CreatedAgo string   `db:"-" json:"createdAgo,omitempty"`
}

// StartsAt combines the calendar date and local time-of-day of the event.
func (e Event) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(eventDateLayout+" "+eventTimeLayout, e.Date+" "+e.Time, loc)
}

// Archived reports whether the event date already passed relative to now.
// Events happening today are still active.
func (e Event) Archived(now time.Time) bool {
	d, err := time.Parse(eventDateLayout, e.Date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

func (e Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}

type CreateEvent struct {
	Title       string
	Description string
	Category    EventCategory
	Date        string
	Time        string
	Address     string
	Latitude    float64
	Longitude   float64

	loggedInUserID string
}

func (in *CreateEvent) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateEvent) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateEvent) Validate() error {
	v := validator.New()

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)

	if in.Title == "" {
		v.AddError("Title", "Title is required")
	}
	if utf8.RuneCountInString(in.Title) > 100 {
		v.AddError("Title", "Title must be at most 100 characters")
	}
	if in.Description == "" {
		v.AddError("Description", "Description is required")
	}
	if utf8.RuneCountInString(in.Description) > 1000 {
		v.AddError("Description", "Description must be at most 1000 characters")
	}
	if !in.Category.Valid() {
		v.AddError("Category", "Unknown category")
	}
	if _, err := time.Parse(eventDateLayout, in.Date); err != nil {
		v.AddError("Date", "Date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(eventTimeLayout, in.Time); err != nil {
		v.AddError("Time", "Time must be in HH:MM format")
	}
	if in.Address == "" {
		v.AddError("Address", "Address is required")
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		v.AddError("Latitude", "Latitude out of range")
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		v.AddError("Longitude", "Longitude out of range")
	}

	return v.AsError()
}

type RetrieveEvent struct {
	EventID string
}

func (in *RetrieveEvent) Validate() error {
	v := validator.New()

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}

	return v.AsError()
}

type EventSort string

const (
	EventSortNearest EventSort = "nearest"
	EventSortLatest  EventSort = "latest"
)

type ListEvents struct {
	Category      *EventCategory
	Date          *string
	MaxDistanceKM *float64
	Sort          *EventSort

	// Viewer position for distance filtering and sorting.
	Latitude  *float64
	Longitude *float64
}

func (in *ListEvents) Validate() error {
	v := validator.New()

	if in.Category != nil && !in.Category.Valid() {
		v.AddError("Category", "Unknown category")
	}
	if in.Date != nil {
		if _, err := time.Parse(eventDateLayout, *in.Date); err != nil {
			v.AddError("Date", "Date must be in YYYY-MM-DD format")
		}
	}
	if in.MaxDistanceKM != nil && *in.MaxDistanceKM <= 0 {
		v.AddError("MaxDistanceKM", "Distance must be greater than 0")
	}
	if in.Sort != nil && *in.Sort != EventSortNearest && *in.Sort != EventSortLatest {
		v.AddError("Sort", "Unknown sort option")
	}
	if (in.MaxDistanceKM != nil || (in.Sort != nil && *in.Sort == EventSortNearest)) &&
		(in.Latitude == nil || in.Longitude == nil) {
		v.AddError("Latitude", "Viewer position is required for distance filtering")
	}

	return v.AsError()
}

type ToggleJoinEvent struct {
	EventID string

	loggedInUserID string
}

func (in *ToggleJoinEvent) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ToggleJoinEvent) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ToggleJoinEvent) Validate() error {
	v := validator.New()

	if in.EventID == "" {
		v.AddError("EventID", "Event ID is required")
	}
	if !id.Valid(in.EventID) {
		v.AddError("EventID", "Event ID is invalid")
	}

	return v.AsError()
}

type ToggleJoinEventOutput struct {
	Joined            bool `json:"joined"`
	ParticipantsCount int  `json:"participantsCount"`
}
