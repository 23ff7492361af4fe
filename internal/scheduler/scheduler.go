package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"weathermood/internal/weather"
)

// Scheduler periodically refreshes weather data for the watched queries so
// the store always holds something recent for them.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	queries   []weather.Query
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(queries []weather.Query, interval time.Duration, service *weather.Service, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		queries:   queries,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	if len(s.queries) == 0 {
		s.logger.Info("no watched locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// refresh runs one SafeFetch per watched query concurrently.
func (s *Scheduler) refresh() {
	s.logger.Info("running weather refresh job", slog.Int("queries", len(s.queries)))

	var wg sync.WaitGroup
	for _, q := range s.queries {
		q := q
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			res := s.service.SafeFetch(ctx, q)
			if res.Status == weather.StatusDegraded {
				s.logger.Warn("refresh degraded", slog.String("query", q.Key()))
			}
		}()
	}
	wg.Wait()
	s.logger.Info("completed weather refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
