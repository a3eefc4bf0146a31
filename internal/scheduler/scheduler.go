package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/avotins/laika-dashboard/internal/app"
)

// Scheduler drives the periodic work: moving the sun-position indicator every
// minute and re-running the forecast pipeline for the active city.
type Scheduler struct {
	scheduler       *gocron.Scheduler
	service         *app.Service
	sunInterval     time.Duration
	refreshInterval time.Duration
	fetchTimeout    time.Duration
}

// New creates a new Scheduler.
func New(service *app.Service, sunInterval, refreshInterval, fetchTimeout time.Duration) *Scheduler {
	return &Scheduler{
		scheduler:       gocron.NewScheduler(time.UTC),
		service:         service,
		sunInterval:     sunInterval,
		refreshInterval: refreshInterval,
		fetchTimeout:    fetchTimeout,
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.sunInterval).Do(func() {
		s.service.RecomputeSun()
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(s.refreshInterval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
		defer cancel()

		if _, err := s.service.Refresh(ctx); err != nil {
			// Not fatal; the next tick retries the same pipeline.
			log.Printf("scheduler: forecast refresh failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
