// Package livefeed turns store writes into live snapshot subscriptions.
//
// Writers tick a per-event subject after committing; subscribers re-query
// the full ordered snapshot on every tick. Delivery is at-least-once and
// carries no payload, so consumers stay idempotent: a duplicate tick just
// rebuilds the same snapshot.
package livefeed

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	streamMessages = "messages"
	streamTyping   = "typing"
)

// Subscription is a live feed handle. Callers must Unsubscribe on
// teardown or they leak callbacks into dead views.
type Subscription interface {
	Unsubscribe() error
}

type Broker struct {
	nc     *nats.Conn
	logger *slog.Logger
}

func NewBroker(nc *nats.Conn, logger *slog.Logger) *Broker {
	return &Broker{nc: nc, logger: logger}
}

func subject(eventID, stream string) string {
	return fmt.Sprintf("gather.chat.%s.%s", eventID, stream)
}

// NotifyMessages signals that the event's message collection changed.
// Best-effort: a lost tick only delays the next snapshot.
func (b *Broker) NotifyMessages(eventID string) {
	b.notify(subject(eventID, streamMessages))
}

// NotifyTyping signals that the event's typing presences changed.
func (b *Broker) NotifyTyping(eventID string) {
	b.notify(subject(eventID, streamTyping))
}

func (b *Broker) notify(subj string) {
	if err := b.nc.Publish(subj, nil); err != nil {
		b.logger.Error("publish live tick", "subject", subj, "err", err)
	}
}

// SubscribeMessages invokes fn on every message change tick for the
// event. fn runs on the broker's delivery goroutine and must not block.
func (b *Broker) SubscribeMessages(eventID string, fn func()) (Subscription, error) {
	return b.subscribe(subject(eventID, streamMessages), fn)
}

// SubscribeTyping invokes fn on every typing change tick for the event.
func (b *Broker) SubscribeTyping(eventID string, fn func()) (Subscription, error) {
	return b.subscribe(subject(eventID, streamTyping), fn)
}

func (b *Broker) subscribe(subj string, fn func()) (Subscription, error) {
	sub, err := b.nc.Subscribe(subj, func(*nats.Msg) {
		fn()
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", subj, err)
	}

	return sub, nil
}
