package main

import (
	"time"

	"slash-history/session"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// schedule registers all recurring jobs and starts running them. The returned
// scheduler must be stopped on shutdown.
func schedule(env *Env, history *History, cd *session.Cooldown) (*cron.Cron, error) {
	logger := cron.PrintfLogger(log.StandardLog())
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger)))

	id, err := c.AddFunc(env.PruneSchedule, func() { dailyPrune(history, cd, env.Retention) })
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("Scheduled job", "job", "prune", "spec", env.PruneSchedule, "next", c.Entry(id).Next.Round(time.Second))
	return c, nil
}

// dailyPrune specifies the housekeeping performed on the prune schedule.
func dailyPrune(history *History, cd *session.Cooldown, retention time.Duration) {
	log.Info("Performing prune")

	if _, err := history.Prune(retention); err != nil {
		log.Error("Failed to prune history", "retention", retention, "err", err)
	}

	cd.Prune()
}
