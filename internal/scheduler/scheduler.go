package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/usecase"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 4 * time.Minute

// Scheduler runs the daily field-trip and attendance jobs on cron timers.
type Scheduler struct {
	cron     *cron.Cron
	trips    *usecase.FieldTripUsecase
	jobs     *usecase.AttendanceJobUsecase
	loc      *time.Location
	entryIDs map[string]cron.EntryID
}

// New registers the jobs of cfg. An invalid cron expression is returned as an error
// and nothing is started.
func New(cfg config.CronConfig, loc *time.Location, trips *usecase.FieldTripUsecase, jobs *usecase.AttendanceJobUsecase) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := cron.PrintfLogger(log.Default())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		trips:    trips,
		jobs:     jobs,
		loc:      loc,
		entryIDs: make(map[string]cron.EntryID),
	}

	specs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"fieldtrip-expiry", cfg.FieldTripExpiry, s.RunFieldTripExpiry},
		{"fieldtrip-attendance", cfg.FieldTripAttendance, s.RunFieldTripAttendance},
		{"attendance-completion", cfg.AttendanceCompletion, s.RunAttendanceCompletion},
	}
	for _, job := range specs {
		if job.spec == "" {
			continue
		}
		run := job.run
		name := job.name
		id, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := run(ctx); err != nil {
				log.Printf("[CRON] %s failed: %v", name, err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", name, job.spec, err)
		}
		s.entryIDs[name] = id
		log.Printf("[CRON] %s scheduled at %q (%s)", name, job.spec, loc)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("[CRON] stop timed out with jobs still running")
	}
}

// Jobs lists the registered job names.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.entryIDs))
	for name := range s.entryIDs {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) today() time.Time {
	return model.Today(s.loc)
}

func (s *Scheduler) RunFieldTripExpiry(ctx context.Context) error {
	_, err := s.trips.ExpireOverdueTrips(ctx, s.today())
	return err
}

func (s *Scheduler) RunFieldTripAttendance(ctx context.Context) error {
	_, err := s.jobs.MarkFieldTripAttendance(ctx, s.today())
	return err
}

func (s *Scheduler) RunAttendanceCompletion(ctx context.Context) error {
	_, err := s.jobs.CompleteOpenAttendance(ctx, s.today())
	return err
}
