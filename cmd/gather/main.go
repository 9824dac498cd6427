package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	charmlog "github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/gatherapp/gather/cockroach"
	"github.com/gatherapp/gather/cockroach/migrator"
	"github.com/gatherapp/gather/config"
	"github.com/gatherapp/gather/livefeed"
	"github.com/gatherapp/gather/notify"
	"github.com/gatherapp/gather/service"
	"github.com/gatherapp/gather/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	errLogger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))
	infoLogger := slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.CockroachURL)
	if err != nil {
		return fmt.Errorf("open cockroach connection pool: %w", err)
	}

	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		return fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	infoLogger.Info("starting cockroach migrations")

	if err := migrator.Migrate(context.Background(), dbPool, cockroach.MigrationsFS); err != nil {
		return fmt.Errorf("migrate cockroach schema: %w", err)
	}

	infoLogger.Info("finished cockroach migrations", "took", time.Since(migrationStart))

	natsConn, err := nats.Connect(cfg.NatsURL, nats.Name("gather"))
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}

	defer natsConn.Drain()

	clk := clock.New()
	reminders := notify.NewReminders(notify.LogNotifier{Logger: infoLogger}, clk, errLogger, loc)
	defer reminders.Close()

	svc := service.New(&service.Config{
		Cockroach: cockroach.New(dbPool),
		Livefeed:  livefeed.NewBroker(natsConn, errLogger),
		Reminders: reminders,
		Viewing:   notify.NewViewingContext(),
		Logger:    infoLogger,
		Clock:     clk,

		TokenKey: cfg.TokenKey,

		BaseCtx:           context.Background(),
		BackgroundTimeout: cfg.BackgroundTimeout,
	})

	go func() {
		for err := range svc.Errs() {
			errLogger.Error("service error", "error", err)
		}
	}()

	handler := &web.Handler{
		Service:     svc,
		Logger:      infoLogger,
		ErrorLogger: errLogger,
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	infoLogger.Info("starting gather server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start gather server: %w", err)
	}

	return svc.Close()
}
