package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hako/durafmt"

	"github.com/gatherapp/gather/types"
)

// reminderLead is how long before an event's start the reminder fires.
const reminderLead = 24 * time.Hour

// Reminders schedules one "event starts soon" notification per joined
// event. Joining inside the lead window schedules nothing; leaving the
// event cancels the pending reminder.
type Reminders struct {
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	location *time.Location

	mu     sync.Mutex
	timers map[string]*clock.Timer
}

func NewReminders(notifier Notifier, clk clock.Clock, logger *slog.Logger, loc *time.Location) *Reminders {
	return &Reminders{
		notifier: notifier,
		clock:    clk,
		logger:   logger,
		location: loc,
		timers:   map[string]*clock.Timer{},
	}
}

// Schedule arms the reminder for ev. Re-scheduling an already tracked
// event replaces the pending timer.
func (r *Reminders) Schedule(ev types.Event) {
	startsAt, err := ev.StartsAt(r.location)
	if err != nil {
		r.logger.Error("parse event start", "event_id", ev.ID, "error", err)
		return
	}

	fireAt := startsAt.Add(-reminderLead)
	d := fireAt.Sub(r.clock.Now())
	if d <= 0 {
		// Already inside the lead window. The user just joined, so they
		// hardly need reminding.
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[ev.ID]; ok {
		t.Stop()
	}
	r.timers[ev.ID] = r.clock.AfterFunc(d, func() {
		r.fire(ev)
	})
}

// Cancel drops the pending reminder for eventID, if any.
func (r *Reminders) Cancel(eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[eventID]; ok {
		t.Stop()
		delete(r.timers, eventID)
	}
}

// Close cancels every pending reminder.
func (r *Reminders) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

func (r *Reminders) fire(ev types.Event) {
	r.mu.Lock()
	delete(r.timers, ev.ID)
	r.mu.Unlock()

	err := r.notifier.Present(context.Background(), Notification{
		Title:   "Upcoming event",
		Body:    fmt.Sprintf("%s starts in %s.", ev.Title, durafmt.Parse(reminderLead)),
		EventID: ev.ID,
	})
	if err != nil {
		r.logger.Error("present reminder", "event_id", ev.ID, "error", err)
	}
}
