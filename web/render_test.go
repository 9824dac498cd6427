package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/validator"
)

func Test_err2code(t *testing.T) {
	invalidInput := validator.New()
	invalidInput.AddError("Title", "Title is required")

	tt := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil",
			err:  nil,
			want: http.StatusOK,
		},
		{
			name: "validator",
			err:  invalidInput.AsError(),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "not_found",
			err:  errs.NotFoundError("event not found"),
			want: http.StatusNotFound,
		},
		{
			name: "invalid_argument",
			err:  errs.InvalidArgumentError("bad input"),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unauthenticated",
			err:  errs.Unauthenticated,
			want: http.StatusUnauthorized,
		},
		{
			name: "permission_denied",
			err:  errs.PermissionDeniedError("not yours"),
			want: http.StatusForbidden,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := err2code(tc.err)
			if got != tc.want {
				t.Errorf("want %d; got %d", tc.want, got)
			}
		})
	}
}

func Test_bearerToken(t *testing.T) {
	tt := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{
			name:      "present",
			header:    "Bearer abc123",
			wantToken: "abc123",
			wantOK:    true,
		},
		{
			name:   "missing",
			header: "",
		},
		{
			name:   "wrong_scheme",
			header: "Basic abc123",
		},
		{
			name:   "empty_token",
			header: "Bearer ",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			token, ok := bearerToken(r)
			if ok != tc.wantOK {
				t.Fatalf("want ok=%v; got %v", tc.wantOK, ok)
			}
			if token != tc.wantToken {
				t.Errorf("want %q; got %q", tc.wantToken, token)
			}
		})
	}
}
