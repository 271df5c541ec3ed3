package querylog

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Pruner removes entries older than a cutoff.
type Pruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically prunes query logs past the retention window.
type Sweeper struct {
	scheduler *gocron.Scheduler
	pruner    Pruner
	maxAge    time.Duration
	interval  time.Duration
}

func NewSweeper(pruner Pruner, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		pruner:    pruner,
		maxAge:    maxAge,
		interval:  interval,
	}
}

// Start schedules the periodic prune job and starts the scheduler.
func (s *Sweeper) Start() error {
	if s.maxAge <= 0 {
		log.Println("sweeper: retention disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cutoff := time.Now().UTC().Add(-s.maxAge)
		removed, err := s.pruner.PruneOlderThan(ctx, cutoff)
		if err != nil {
			log.Printf("sweeper: prune failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("sweeper: removed %d query logs older than %s", removed, cutoff.Format(time.RFC3339))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
