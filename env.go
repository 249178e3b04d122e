package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type Env struct {
	IsProd   bool   `env:"PROD"`
	LogLevel string `env:"LOG_LEVEL"`
	Token    string `env:"DISCORD_BOT_TOKEN,required"`
	ServerID string `env:"SERVER_ID,required"`

	DBPath        string        `env:"DB_PATH" envDefault:"slash_history.sqlite"`
	Retention     time.Duration `env:"RETENTION" envDefault:"720h"`
	PruneSchedule string        `env:"PRUNE_SCHEDULE" envDefault:"@daily"`

	Cooldown time.Duration `env:"COMMAND_COOLDOWN" envDefault:"2s"`
	Burst    int           `env:"COMMAND_BURST" envDefault:"3"`
}

// NewEnv loads the environment, optionally from a .env file in the working
// directory, and configures the logger accordingly.
func NewEnv() (*Env, error) {
	log.Info("Setting up environment")

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debug("No .env file found, using process environment")
	}

	e, err := env.ParseAs[Env]()
	if err != nil {
		return nil, err
	}

	lvl, err := e.Level()
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	return &e, nil
}

// Level returns the configured log level. Production defaults to info,
// everything else to debug.
func (e *Env) Level() (log.Level, error) {
	if e.LogLevel != "" {
		return log.ParseLevel(e.LogLevel)
	}
	if e.IsProd {
		return log.InfoLevel, nil
	}
	return log.DebugLevel, nil
}
