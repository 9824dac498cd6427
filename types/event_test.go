package types

import (
	"strings"
	"testing"
	"time"
)

func validCreateEvent() CreateEvent {
	return CreateEvent{
		Title:       "Board games night",
		Description: "Bring your favorite game.",
		Category:    EventCategoryBoardGames,
		Date:        "2025-06-15",
		Time:        "19:30",
		Address:     "Main Square 1, Krakow",
		Latitude:    50.0617,
		Longitude:   19.9373,
	}
}

func Test_CreateEvent_Validate(t *testing.T) {
	tt := []struct {
		name    string
		mutate  func(*CreateEvent)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(in *CreateEvent) {},
		},
		{
			name:    "empty_title",
			mutate:  func(in *CreateEvent) { in.Title = "  " },
			wantErr: true,
		},
		{
			name:    "title_too_long",
			mutate:  func(in *CreateEvent) { in.Title = strings.Repeat("x", 101) },
			wantErr: true,
		},
		{
			name:    "description_too_long",
			mutate:  func(in *CreateEvent) { in.Description = strings.Repeat("x", 1001) },
			wantErr: true,
		},
		{
			name:    "unknown_category",
			mutate:  func(in *CreateEvent) { in.Category = "knitting" },
			wantErr: true,
		},
		{
			name:    "bad_date_format",
			mutate:  func(in *CreateEvent) { in.Date = "15.06.2025" },
			wantErr: true,
		},
		{
			name:    "bad_time_format",
			mutate:  func(in *CreateEvent) { in.Time = "7pm" },
			wantErr: true,
		},
		{
			name:    "latitude_out_of_range",
			mutate:  func(in *CreateEvent) { in.Latitude = 91 },
			wantErr: true,
		},
		{
			name:    "longitude_out_of_range",
			mutate:  func(in *CreateEvent) { in.Longitude = -181 },
			wantErr: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateEvent()
			tc.mutate(&in)
			err := in.Validate()
			if tc.wantErr && err == nil {
				t.Error("want a validation error; got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("want no error; got %v", err)
			}
		})
	}
}

func Test_Event_Archived(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)

	tt := []struct {
		name string
		date string
		want bool
	}{
		{
			name: "past_event",
			date: "2025-01-01",
			want: true,
		},
		{
			name: "yesterday",
			date: "2025-05-31",
			want: true,
		},
		{
			name: "today_is_still_active",
			date: "2025-06-01",
			want: false,
		},
		{
			name: "future_event",
			date: "2025-12-01",
			want: false,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ev := Event{Date: tc.date}
			if got := ev.Archived(now); got != tc.want {
				t.Errorf("%s at %s: want archived=%v; got %v", tc.date, now, tc.want, got)
			}
		})
	}
}

func Test_ListEvents_Validate(t *testing.T) {
	category := EventCategorySport
	date := "2025-06-15"
	dist := 10.0
	nearest := EventSortNearest
	lat, lon := 50.0, 20.0

	tt := []struct {
		name    string
		in      ListEvents
		wantErr bool
	}{
		{
			name: "empty_filters",
			in:   ListEvents{},
		},
		{
			name: "category_and_date",
			in:   ListEvents{Category: &category, Date: &date},
		},
		{
			name: "distance_with_position",
			in:   ListEvents{MaxDistanceKM: &dist, Latitude: &lat, Longitude: &lon},
		},
		{
			name:    "distance_without_position",
			in:      ListEvents{MaxDistanceKM: &dist},
			wantErr: true,
		},
		{
			name:    "nearest_sort_without_position",
			in:      ListEvents{Sort: &nearest},
			wantErr: true,
		},
		{
			name: "nearest_sort_with_position",
			in:   ListEvents{Sort: &nearest, Latitude: &lat, Longitude: &lon},
		},
		{
			name:    "zero_distance",
			in:      ListEvents{MaxDistanceKM: new(float64), Latitude: &lat, Longitude: &lon},
			wantErr: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantErr && err == nil {
				t.Error("want a validation error; got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("want no error; got %v", err)
			}
		})
	}
}
