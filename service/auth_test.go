package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/id"
)

func testService(t *testing.T, tokenKey string) *Service {
	t.Helper()
	return New(&Config{
		TokenKey: tokenKey,
		Clock:    clock.NewMock(),
	})
}

func Test_AuthUserIDFromToken(t *testing.T) {
	key := strings.Repeat("x", 32)
	svc := testService(t, key)

	t.Run("round_trip", func(t *testing.T) {
		uid := id.Generate()
		token, err := svc.codec().EncodeToString(uid)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		got, err := svc.AuthUserIDFromToken(token)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != uid {
			t.Errorf("want %q; got %q", uid, got)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.AuthUserIDFromToken("not-a-token")
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("want ErrInvalidToken; got %v", err)
		}
	})

	t.Run("not_a_user_id", func(t *testing.T) {
		token, err := svc.codec().EncodeToString("hello")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		_, err = svc.AuthUserIDFromToken(token)
		if !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("want ErrInvalidUserID; got %v", err)
		}
	})

	t.Run("wrong_key", func(t *testing.T) {
		other := testService(t, strings.Repeat("y", 32))
		token, err := other.codec().EncodeToString(id.Generate())
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		_, err = svc.AuthUserIDFromToken(token)
		if !errors.Is(err, errs.Unauthenticated) {
			t.Errorf("want Unauthenticated; got %v", err)
		}
	})
}

func Test_timeAgo(t *testing.T) {
	mock := clock.NewMock()
	mock.Add(100 * 24 * time.Hour)
	svc := New(&Config{Clock: mock})

	tt := []struct {
		name string
		d    time.Duration
		want string
	}{
		{
			name: "just_now",
			d:    30 * time.Second,
			want: "just now",
		},
		{
			name: "minutes",
			d:    5 * time.Minute,
			want: "5 minutes ago",
		},
		{
			name: "hours_truncated_to_first_unit",
			d:    2*time.Hour + 14*time.Minute,
			want: "2 hours ago",
		},
		{
			name: "days",
			d:    3 * 24 * time.Hour,
			want: "3 days ago",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.timeAgo(mock.Now().Add(-tc.d))
			if got != tc.want {
				t.Errorf("want %q; got %q", tc.want, got)
			}
		})
	}
}
