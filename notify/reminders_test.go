package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gatherapp/gather/types"
)

type notifierLog struct {
	mu        sync.Mutex
	presented []Notification
}

func (l *notifierLog) Present(ctx context.Context, n Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.presented = append(l.presented, n)
	return nil
}

func (l *notifierLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.presented)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eventStartingAt(t *testing.T, id string, startsAt time.Time) types.Event {
	t.Helper()
	return types.Event{
		ID:    id,
		Title: "Board games night",
		Date:  startsAt.Format("2006-01-02"),
		Time:  startsAt.Format("15:04"),
	}
}

func Test_Reminders_FiresAtLeadTime(t *testing.T) {
	mock := clock.NewMock()
	notifier := &notifierLog{}
	r := NewReminders(notifier, mock, discardLogger(), time.UTC)

	// Starts in 48h; the reminder belongs at the 24h mark.
	r.Schedule(eventStartingAt(t, "ev1", mock.Now().Add(48*time.Hour)))

	mock.Add(24*time.Hour - time.Minute)
	if got := notifier.count(); got != 0 {
		t.Fatalf("want no reminder yet; got %d", got)
	}

	mock.Add(time.Minute)
	if got := notifier.count(); got != 1 {
		t.Fatalf("want 1 reminder; got %d", got)
	}

	mock.Add(48 * time.Hour)
	if got := notifier.count(); got != 1 {
		t.Errorf("want no repeat; got %d", got)
	}
}

func Test_Reminders_SkipsInsideLeadWindow(t *testing.T) {
	mock := clock.NewMock()
	notifier := &notifierLog{}
	r := NewReminders(notifier, mock, discardLogger(), time.UTC)

	// Joining 12h before the start: no reminder at all.
	r.Schedule(eventStartingAt(t, "ev1", mock.Now().Add(12*time.Hour)))

	mock.Add(72 * time.Hour)
	if got := notifier.count(); got != 0 {
		t.Errorf("want no reminder; got %d", got)
	}
}

func Test_Reminders_CancelDropsPending(t *testing.T) {
	mock := clock.NewMock()
	notifier := &notifierLog{}
	r := NewReminders(notifier, mock, discardLogger(), time.UTC)

	r.Schedule(eventStartingAt(t, "ev1", mock.Now().Add(48*time.Hour)))
	r.Cancel("ev1")

	mock.Add(72 * time.Hour)
	if got := notifier.count(); got != 0 {
		t.Errorf("want cancelled reminder to stay silent; got %d", got)
	}
}

func Test_Reminders_RescheduleReplaces(t *testing.T) {
	mock := clock.NewMock()
	notifier := &notifierLog{}
	r := NewReminders(notifier, mock, discardLogger(), time.UTC)

	r.Schedule(eventStartingAt(t, "ev1", mock.Now().Add(48*time.Hour)))
	r.Schedule(eventStartingAt(t, "ev1", mock.Now().Add(96*time.Hour)))

	mock.Add(30 * time.Hour)
	if got := notifier.count(); got != 0 {
		t.Fatalf("want the old timer replaced; got %d", got)
	}

	mock.Add(48 * time.Hour)
	if got := notifier.count(); got != 1 {
		t.Errorf("want 1 reminder at the new time; got %d", got)
	}
}
