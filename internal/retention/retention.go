// Package retention runs the scheduled eviction of old cached bet events.
package retention

import (
	"context"
	"time"

	"wager-validator-store/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically purges bet events older than the retention window.
// Snapshots are deliberately not covered: the snapshot table keeps full
// history.
type Sweeper struct {
	cron     *cron.Cron
	store    *store.Store
	days     int
	schedule string
	log      *logrus.Logger
}

func New(st *store.Store, days int, schedule string, log *logrus.Logger) *Sweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{
		cron:     cron.New(),
		store:    st,
		days:     days,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the sweep on the configured schedule and runs one sweep
// immediately so a long-stopped validator catches up on restart.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.store.PurgeEventsOlderThan(ctx, s.days); err != nil {
		s.log.WithError(err).Error("bet event purge failed")
	}
}
