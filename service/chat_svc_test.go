package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/types"
)

func Test_ChatEdit_RequiresOpenSession(t *testing.T) {
	svc := testService(t, strings.Repeat("x", 32))
	ctx := auth.ContextWithUser(context.Background(), types.User{ID: id.Generate(), Nick: "alice"})

	err := svc.ChatEdit(ctx, id.Generate())
	if !errors.Is(err, ErrNoOpenChat) {
		t.Errorf("want ErrNoOpenChat; got %v", err)
	}
}

func Test_ChatSetAtBottom_RequiresOpenSession(t *testing.T) {
	svc := testService(t, strings.Repeat("x", 32))
	ctx := auth.ContextWithUser(context.Background(), types.User{ID: id.Generate(), Nick: "alice"})

	err := svc.ChatSetAtBottom(ctx, id.Generate(), false)
	if !errors.Is(err, ErrNoOpenChat) {
		t.Errorf("want ErrNoOpenChat; got %v", err)
	}
}

func Test_ChatEdit_RequiresAuth(t *testing.T) {
	svc := testService(t, strings.Repeat("x", 32))

	err := svc.ChatEdit(context.Background(), id.Generate())
	if !errors.Is(err, errs.Unauthenticated) {
		t.Errorf("want unauthenticated; got %v", err)
	}
}
