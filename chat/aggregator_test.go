package chat

import (
	"reflect"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gatherapp/gather/types"
)

func presence(userID, nick string, lastSeen time.Time) types.TypingPresence {
	return types.TypingPresence{EventID: "ev1", UserID: userID, Nick: nick, LastSeen: lastSeen}
}

func Test_Aggregator_StalenessFilter(t *testing.T) {
	mock := clock.NewMock()
	now := mock.Now()
	agg := NewAggregator("me", mock, nil)

	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", now.Add(-5*time.Second)),
		presence("u2", "bob", now.Add(-7*time.Second)),
		presence("me", "self", now),
	})

	got := agg.Typing()
	want := []string{"alice"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v; got %v", want, got)
	}
}

func Test_Aggregator_StaleRecordExpiresWithoutNewSnapshot(t *testing.T) {
	mock := clock.NewMock()
	var states []TypingState
	agg := NewAggregator("me", mock, func(s TypingState) {
		states = append(states, s)
	})

	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})
	if got := agg.Typing(); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Fatalf("want alice typing; got %v", got)
	}

	// The peer crashed: no delete, no further snapshots. The record must
	// still vanish once it ages past the staleness threshold.
	mock.Add(presenceStaleAfter + time.Millisecond)

	if got := agg.Typing(); got != nil {
		t.Errorf("want nobody typing after staleness; got %v", got)
	}

	last := states[len(states)-1]
	if last.Active {
		t.Errorf("want inactive display state; got %+v", last)
	}
}

func Test_Aggregator_SuppressionWindow(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator("me", mock, nil)

	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})
	if got := agg.Typing(); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Fatalf("want alice typing; got %v", got)
	}

	agg.ObserveMessages([]types.Message{
		{ID: "m1", EventID: "ev1", UserID: "u1", Text: "hi", CreatedAt: mock.Now()},
	})

	if got := agg.Typing(); got != nil {
		t.Fatalf("want suppressed right after a message; got %v", got)
	}

	mock.Add(suppressionWindow - time.Millisecond)
	if got := agg.Typing(); got != nil {
		t.Errorf("want suppressed inside the window; got %v", got)
	}

	mock.Add(time.Millisecond)
	if got := agg.Typing(); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("want alice back after the window; got %v", got)
	}
}

func Test_Aggregator_SameMessageDoesNotResuppress(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator("me", mock, nil)

	msgs := []types.Message{
		{ID: "m1", EventID: "ev1", UserID: "u1", Text: "hi", CreatedAt: mock.Now()},
	}

	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})
	agg.ObserveMessages(msgs)

	mock.Add(suppressionWindow)
	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})

	// A re-queried snapshot with the same trailing message id must not
	// open a fresh window.
	agg.ObserveMessages(msgs)

	if got := agg.Typing(); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("want alice typing; got %v", got)
	}
}

func Test_Aggregator_NewMessageReopensWindow(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator("me", mock, nil)

	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})
	agg.ObserveMessages([]types.Message{
		{ID: "m1", UserID: "u1", Text: "hi", CreatedAt: mock.Now()},
	})

	mock.Add(suppressionWindow)
	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})

	agg.ObserveMessages([]types.Message{
		{ID: "m1", UserID: "u1", Text: "hi"},
		{ID: "m2", UserID: "u1", Text: "again", CreatedAt: mock.Now()},
	})

	if got := agg.Typing(); got != nil {
		t.Errorf("want suppressed after a new trailing message; got %v", got)
	}
}

func Test_Aggregator_FadeKeepsNamesBriefly(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator("me", mock, nil)

	agg.SetPresences([]types.TypingPresence{
		presence("u1", "alice", mock.Now()),
	})
	agg.SetPresences(nil)

	state := agg.State()
	if state.Active {
		t.Errorf("want inactive once the set empties; got %+v", state)
	}
	if !reflect.DeepEqual(state.Names, []string{"alice"}) {
		t.Errorf("want names retained during fade; got %v", state.Names)
	}

	mock.Add(fadeOutGrace)
	if state := agg.State(); state.Names != nil {
		t.Errorf("want names cleared after fade; got %v", state.Names)
	}
}

func Test_TypingState_Label(t *testing.T) {
	tt := []struct {
		name  string
		names []string
		want  string
	}{
		{
			name:  "nobody",
			names: nil,
			want:  "",
		},
		{
			name:  "one",
			names: []string{"alice"},
			want:  "alice is typing",
		},
		{
			name:  "two",
			names: []string{"alice", "bob"},
			want:  "alice, bob and others are typing",
		},
		{
			name:  "three",
			names: []string{"alice", "bob", "carol"},
			want:  "alice, bob and others are typing",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := TypingState{Names: tc.names}.Label()
			if got != tc.want {
				t.Errorf("want %q; got %q", tc.want, got)
			}
		})
	}
}
