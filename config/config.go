package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

type Config struct {
	CockroachURL      string        `ff:"long: cockroach-url, default: postgresql://root@127.0.0.1:26257/defaultdb?sslmode=disable, usage: URL for the CockroachDB database"`
	NatsURL           string        `ff:"long: nats-url, default: nats://127.0.0.1:4222, usage: URL for the NATS server backing live updates"`
	Port              uint32        `ff:"long: port, short: p, default: 4000, usage: Port for the HTTP server"`
	TokenKey          string        `ff:"long: token-key, default: supersecretkeyyoushouldnotcommit, usage: 32-byte key for auth tokens"`
	Timezone          string        `ff:"long: timezone, default: Local, usage: IANA timezone for event start times"`
	BackgroundTimeout time.Duration `ff:"long: background-timeout, default: 15s, usage: Timeout for background side effects"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := ff.NewFlagSetFrom("gather", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("GATHER"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		os.Exit(0)
	}

	return cfg, err
}
