// Package service implements the application logic on top of the storage
// and live-update layers. Methods authenticate from context, validate
// their input, and delegate.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gatherapp/gather/chat"
	"github.com/gatherapp/gather/cockroach"
	"github.com/gatherapp/gather/livefeed"
	"github.com/gatherapp/gather/notify"
)

type Config struct {
	Cockroach *cockroach.Cockroach
	Livefeed  *livefeed.Broker
	Reminders *notify.Reminders
	Viewing   *notify.ViewingContext
	Logger    *slog.Logger
	Clock     clock.Clock

	TokenKey string

	BaseCtx           context.Context
	BackgroundTimeout time.Duration
}

type Service struct {
	Cockroach *cockroach.Cockroach
	Livefeed  *livefeed.Broker
	Reminders *notify.Reminders
	Viewing   *notify.ViewingContext
	Logger    *slog.Logger

	clock    clock.Clock
	tokenKey string
	chats    *chat.Registry

	baseCtx           context.Context
	backgroundTimeout time.Duration
	wg                sync.WaitGroup
	errs              chan error
}

func New(cfg *Config) *Service {
	return &Service{
		Cockroach: cfg.Cockroach,
		Livefeed:  cfg.Livefeed,
		Reminders: cfg.Reminders,
		Viewing:   cfg.Viewing,
		Logger:    cfg.Logger,

		clock:    cfg.Clock,
		tokenKey: cfg.TokenKey,
		chats:    chat.NewRegistry(),

		baseCtx:           cfg.BaseCtx,
		backgroundTimeout: cfg.BackgroundTimeout,
		errs:              make(chan error, 1),
	}
}

func (s *Service) Errs() <-chan error {
	return s.errs
}

// BaseContext is the long-lived context teardown work can hang off after
// a request context is gone.
func (s *Service) BaseContext() context.Context {
	return s.baseCtx
}

func (s *Service) Close() error {
	s.wg.Wait()
	close(s.errs)
	return nil
}

func (s *Service) background(fn func(ctx context.Context) error) {
	s.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				select {
				case s.errs <- fmt.Errorf("service background panic: %v", rcv):
				default:
				}
			}
		}()

		ctx, cancel := context.WithTimeout(s.baseCtx, s.backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			select {
			case s.errs <- fmt.Errorf("service background error: %w", err):
			default:
			}
		}
	})
}
