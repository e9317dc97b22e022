package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dungscout96/prompt-experiment/internal/db"
	"github.com/dungscout96/prompt-experiment/internal/logger"
	"github.com/dungscout96/prompt-experiment/internal/models"
	"github.com/dungscout96/prompt-experiment/internal/services"
)

// Scheduler re-runs saved description sets on their cron expressions,
// persisting each run as a labelled experiment record.
type Scheduler struct {
	db          *db.DB
	experiments *services.ExperimentService
	cron        *cron.Cron
	running     bool
	mu          sync.RWMutex
}

// New creates a new scheduler
func New(database *db.DB, experiments *services.ExperimentService) *Scheduler {
	return &Scheduler{
		db:          database,
		experiments: experiments,
		cron:        cron.New(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	enabled := true
	schedules, err := s.db.ListSchedules(ctx, &enabled)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.registerSchedule(schedule); err != nil {
			logger.Error("Failed to register schedule %s: %v", schedule.ID, err)
		}
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started with %d schedules", len(schedules))
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false

	logger.Info("Scheduler stopped")
}

// Reload re-registers all schedules, picking up creations and edits
func (s *Scheduler) Reload(ctx context.Context) error {
	s.Stop()
	s.mu.Lock()
	s.cron = cron.New()
	s.mu.Unlock()
	return s.Start(ctx)
}

func (s *Scheduler) registerSchedule(schedule *models.Schedule) error {
	_, err := s.cron.AddFunc(schedule.CronExpr, func() {
		if err := s.executeSchedule(context.Background(), schedule.ID); err != nil {
			logger.Error("Failed to execute schedule %s: %v", schedule.ID, err)
		}
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	logger.Info("Registered schedule %s with cron expression: %s", schedule.ID, schedule.CronExpr)
	return nil
}

// executeSchedule runs every description in the schedule through the
// pipeline, one after another. Sequential on purpose: the experiment store
// assumes a single writer, and each pipeline run is itself sequential.
func (s *Scheduler) executeSchedule(ctx context.Context, scheduleID string) error {
	schedule, err := s.db.GetSchedule(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	logger.Info("Executing schedule %s (%d descriptions, model %s)", schedule.Name, len(schedule.Descriptions), schedule.Model)

	started := time.Now()
	for i, description := range schedule.Descriptions {
		req := services.RunRequest{
			Model:       schedule.Model,
			Description: description,
			GraderModel: schedule.GraderModel,
		}

		result, err := s.experiments.Run(ctx, req)
		if err != nil {
			// Single attempt per run; the next cron fire tries again.
			logger.Error("Schedule %s: run %d/%d failed: %v", schedule.Name, i+1, len(schedule.Descriptions), err)
			continue
		}

		name := fmt.Sprintf("%s (%s)", schedule.Name, started.Format("2006-01-02 15:04"))
		if _, _, err := s.experiments.Save(req, result, name); err != nil {
			logger.Error("Schedule %s: failed to save run %d/%d: %v", schedule.Name, i+1, len(schedule.Descriptions), err)
		}
	}

	now := time.Now()
	schedule.LastRun = &now
	if err := s.db.UpdateSchedule(ctx, schedule); err != nil {
		logger.Error("Failed to update schedule last run: %v", err)
	}

	logger.Info("Completed schedule %s in %v", schedule.Name, time.Since(started))
	return nil
}

// ExecuteNow executes a schedule immediately
func (s *Scheduler) ExecuteNow(ctx context.Context, scheduleID string) error {
	return s.executeSchedule(ctx, scheduleID)
}
