package chat

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func newTestScroll() (*Scroll, *clock.Mock, *int) {
	mock := clock.NewMock()
	fires := 0
	s := NewScroll(mock, func() { fires++ })
	return s, mock, &fires
}

func Test_Scroll_InitialSnapshotScrolls(t *testing.T) {
	s, mock, fires := newTestScroll()

	s.OnFeedChange(10)
	if *fires != 0 {
		t.Fatalf("want the scroll to wait for the settle delay; got %d", *fires)
	}

	mock.Add(scrollSettleDelay)
	if *fires != 1 {
		t.Errorf("want 1 scroll; got %d", *fires)
	}
}

func Test_Scroll_UnchangedCountDoesNotScroll(t *testing.T) {
	s, mock, fires := newTestScroll()

	s.OnFeedChange(5)
	mock.Add(scrollSettleDelay)
	s.OnFeedChange(5)
	mock.Add(scrollSettleDelay)

	if *fires != 1 {
		t.Errorf("want 1 scroll; got %d", *fires)
	}
}

func Test_Scroll_BurstCollapsesToOneJump(t *testing.T) {
	s, mock, fires := newTestScroll()

	s.OnFeedChange(5)
	mock.Add(scrollSettleDelay / 2)
	s.OnFeedChange(6)
	mock.Add(scrollSettleDelay / 2)
	s.OnFeedChange(7)
	mock.Add(scrollSettleDelay)

	if *fires != 1 {
		t.Errorf("want a burst to land one scroll; got %d", *fires)
	}
}

func Test_Scroll_TypingIndicatorScrollsOnAppear(t *testing.T) {
	s, mock, fires := newTestScroll()

	s.OnTypingChange(true)
	mock.Add(scrollSettleDelay)
	if *fires != 1 {
		t.Fatalf("want scroll when the indicator appears; got %d", *fires)
	}

	s.OnTypingChange(false)
	mock.Add(scrollSettleDelay)
	if *fires != 1 {
		t.Errorf("want no scroll when the indicator vanishes; got %d", *fires)
	}

	// One edge, then a repeat report while already on.
	s.OnTypingChange(true)
	s.OnTypingChange(true)
	mock.Add(scrollSettleDelay)
	if *fires != 2 {
		t.Errorf("want one scroll per off-to-on edge; got %d", *fires)
	}
}

func Test_Scroll_ScrolledUpDropsRequests(t *testing.T) {
	s, mock, fires := newTestScroll()

	s.SetAtBottom(false)
	s.OnFeedChange(5)
	s.OnFeedChange(6)
	mock.Add(time.Second)

	if *fires != 0 {
		t.Fatalf("want no scroll while reading history; got %d", *fires)
	}

	// Coming back to the bottom must not replay the dropped requests.
	s.SetAtBottom(true)
	mock.Add(time.Second)
	if *fires != 0 {
		t.Errorf("want dropped requests to stay dropped; got %d", *fires)
	}

	// New growth scrolls again.
	s.OnFeedChange(7)
	mock.Add(scrollSettleDelay)
	if *fires != 1 {
		t.Errorf("want 1 scroll after new growth; got %d", *fires)
	}
}

func Test_Scroll_LeavingBottomBeforeSettleCancels(t *testing.T) {
	s, mock, fires := newTestScroll()

	s.OnFeedChange(5)
	s.SetAtBottom(false)
	mock.Add(scrollSettleDelay)

	if *fires != 0 {
		t.Errorf("want the pending jump dropped; got %d", *fires)
	}
}
