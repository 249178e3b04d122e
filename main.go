package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"slash-history/db"
	"slash-history/session"

	"github.com/charmbracelet/log"
)

func main() {
	env, err := NewEnv()
	if err != nil {
		log.Fatal("Failed to load environment", "err", err)
	}

	d, err := db.NewDB(env.DBPath)
	if err != nil {
		log.Fatal("Failed to open database", "path", env.DBPath, "err", err)
	}
	defer d.Close()

	history := NewHistory(NewDAL(d))
	cd := session.NewCooldown(env.Cooldown, env.Burst)

	s, err := session.NewSession(env.Token, env.ServerID, cd)
	if err != nil {
		log.Fatal("Failed to create session", "sID", env.ServerID, "err", err)
	}
	s.Invoked = history.Record

	if err := s.Open(history.Commands()); err != nil {
		log.Fatal("Failed to open session", "err", err)
	}
	defer s.Close()

	jobs, err := schedule(env, history, cd)
	if err != nil {
		log.Fatal("Failed to schedule jobs", "err", err)
	}
	defer jobs.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Bot is running")
	<-ctx.Done()
	log.Info("Shutting down")
}
