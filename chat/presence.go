package chat

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
)

// PresenceStore persists the local user's typing record. Both writes are
// best-effort: failures are swallowed because staleness filtering on the
// reader side is the correctness backstop.
type PresenceStore interface {
	Refresh(ctx context.Context) error
	Clear(ctx context.Context) error
}

type presenceState int

const (
	presenceIdle presenceState = iota
	presenceTyping
)

// Presence tracks local typing intent as a two-state machine.
//
// Idle -> Typing on the first edit after idle; Typing self-loops on edits
// and heartbeats; Typing -> Idle on the inactivity timeout, an explicit
// send, or leaving the chat. No other transitions.
type Presence struct {
	store   PresenceStore
	clock   clock.Clock
	baseCtx context.Context

	mu         sync.Mutex
	state      presenceState
	heartbeat  *clock.Timer
	inactivity *clock.Timer
	closed     bool
}

func NewPresence(store PresenceStore, clk clock.Clock) *Presence {
	return &Presence{
		store:   store,
		clock:   clk,
		baseCtx: context.Background(),
	}
}

// OnLocalEdit is called on every local text-input change. The first edit
// after idle writes the presence record immediately and starts the
// heartbeat; every edit resets the inactivity timer.
func (p *Presence) OnLocalEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	if p.state == presenceIdle {
		p.state = presenceTyping
		_ = p.store.Refresh(p.baseCtx)
		p.heartbeat = p.clock.AfterFunc(heartbeatInterval, p.onHeartbeat)
	}

	if p.inactivity != nil {
		p.inactivity.Stop()
	}
	p.inactivity = p.clock.AfterFunc(inactivityTimeout, p.onInactive)
}

func (p *Presence) onHeartbeat() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != presenceTyping {
		return
	}

	_ = p.store.Refresh(p.baseCtx)
	p.heartbeat = p.clock.AfterFunc(heartbeatInterval, p.onHeartbeat)
}

func (p *Presence) onInactive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

// OnMessageSent retracts the presence record right away, pre-empting the
// inactivity timer. Calling it while idle is a no-op: no delete is
// attempted on a record that was never written.
func (p *Presence) OnMessageSent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

// OnLeave stops the state machine for good. Later edits are ignored,
// which keeps a torn-down screen from resurrecting the heartbeat.
func (p *Presence) OnLeave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	p.closed = true
}

// stop must be called with p.mu held.
func (p *Presence) stop() {
	if p.heartbeat != nil {
		p.heartbeat.Stop()
		p.heartbeat = nil
	}
	if p.inactivity != nil {
		p.inactivity.Stop()
		p.inactivity = nil
	}

	if p.state == presenceTyping {
		p.state = presenceIdle
		_ = p.store.Clear(p.baseCtx)
	}
}
