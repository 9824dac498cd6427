// Package chat implements the live group-chat screen logic: the local
// typing heartbeat, the aggregation of peers' typing presence, the ordered
// message feed with author resolution, the per-user read watermark, and
// the auto-scroll coordination. Everything temporal takes an injected
// clock so the timing properties are testable.
package chat

import "time"

const (
	// heartbeatInterval refreshes the local typing record while composing.
	heartbeatInterval = 1500 * time.Millisecond
	// inactivityTimeout stops the heartbeat after the last keystroke.
	inactivityTimeout = 3 * time.Second
	// presenceStaleAfter treats a peer record as absent past this age,
	// regardless of its physical existence in the store.
	presenceStaleAfter = 6 * time.Second
	// suppressionWindow forces empty typing output after a new message,
	// so replication lag cannot leave a stale bubble under a sent message.
	suppressionWindow = 3 * time.Second
	// fadeOutGrace keeps the previous names mounted while the bubble
	// fades. Cosmetic only; it never feeds back into suppression.
	fadeOutGrace = 350 * time.Millisecond
	// scrollSettleDelay lets the list measure new content before the
	// scroll-to-end fires.
	scrollSettleDelay = 100 * time.Millisecond
)
