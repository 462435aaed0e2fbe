package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/MatthewCrocker7/bestball-backend/pkg/config"
)

// UpdateScheduler drives the recurring sync jobs: the Sportradar
// reference pulls and the game recompute pass. Each job gets an initial
// staggered run so a fresh deployment fills the database quickly, then
// repeats on its configured interval. A slow run is skipped rather than
// stacked.
type UpdateScheduler struct {
	logger  *logrus.Logger
	cron    *cron.Cron
	pga     *PgaUpdateService
	sync    *GameSyncService
	breaker *CircuitBreakerService
	cfg     *config.Config

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	jobs      map[string]JobInfo
	jobFuncs  map[string]func()
	jobLocks  map[string]*sync.Mutex
	isRunning bool
}

// JobInfo represents information about a scheduled job
type JobInfo struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Schedule   string        `json:"schedule"`
	LastRun    time.Time     `json:"last_run"`
	Status     string        `json:"status"`
	RunCount   int           `json:"run_count"`
	ErrorCount int           `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

func NewUpdateScheduler(pga *PgaUpdateService, syncService *GameSyncService, breaker *CircuitBreakerService, cfg *config.Config, logger *logrus.Logger) *UpdateScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	cronLogger := cron.VerbosePrintfLogger(logger)
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	return &UpdateScheduler{
		logger:   logger,
		cron:     c,
		pga:      pga,
		sync:     syncService,
		breaker:  breaker,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[string]JobInfo),
		jobFuncs: make(map[string]func()),
		jobLocks: make(map[string]*sync.Mutex),
	}
}

// Start schedules all jobs and kicks off their staggered initial runs.
func (s *UpdateScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("update scheduler is already running")
	}

	if err := s.scheduleJobs(); err != nil {
		return fmt.Errorf("failed to schedule jobs: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithField("component", "scheduler").Info("Update scheduler started")
	return nil
}

func (s *UpdateScheduler) scheduleJobs() error {
	type jobSpec struct {
		id           string
		name         string
		interval     time.Duration
		initialDelay time.Duration
		breakerName  string
		run          func()
	}

	specs := []jobSpec{
		{
			id:           "world_rankings",
			name:         "World rankings sync",
			interval:     s.cfg.RankingsInterval,
			initialDelay: s.cfg.RankingsInitialDelay,
			breakerName:  "rankings",
			run:          s.runWorldRankings,
		},
		{
			id:           "season_schedule",
			name:         "Season schedule sync",
			interval:     s.cfg.ScheduleInterval,
			initialDelay: s.cfg.ScheduleInitialDelay,
			breakerName:  "schedule",
			run:          s.runSeasonSchedule,
		},
		{
			id:           "tournament_details",
			name:         "Tournament details sync",
			interval:     s.cfg.TournamentInterval,
			initialDelay: s.cfg.TournamentInitialDelay,
			breakerName:  "tournaments",
			run:          s.runTournamentDetails,
		},
		{
			id:           "round_scores",
			name:         "Round scores sync",
			interval:     s.cfg.RoundInterval,
			initialDelay: s.cfg.RoundInitialDelay,
			breakerName:  "scorecards",
			run:          s.runRoundScores,
		},
		{
			id:           "game_sync",
			name:         "Game recompute pass",
			interval:     s.cfg.GameSyncInterval,
			initialDelay: s.cfg.GameSyncInitialDelay,
			run:          s.runGameSync,
		},
	}

	for _, spec := range specs {
		spec := spec
		schedule := fmt.Sprintf("@every %s", spec.interval)

		guarded := func() {
			if spec.breakerName != "" && s.breaker.GetState(spec.breakerName) == gobreaker.StateOpen {
				s.logger.WithFields(logrus.Fields{
					"component": "scheduler",
					"job_id":    spec.id,
				}).Warn("Upstream unavailable, skipping job run")
				return
			}
			spec.run()
		}

		if _, err := s.cron.AddFunc(schedule, func() {
			s.runJob(spec.id, guarded)
		}); err != nil {
			return fmt.Errorf("failed to add job %s: %w", spec.id, err)
		}

		s.jobs[spec.id] = JobInfo{
			ID:       spec.id,
			Name:     spec.name,
			Schedule: schedule,
			Status:   "scheduled",
		}
		s.jobFuncs[spec.id] = guarded
		s.jobLocks[spec.id] = &sync.Mutex{}

		// First run fires after a short stagger instead of waiting a
		// full interval.
		delay := spec.initialDelay
		time.AfterFunc(delay, func() {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			s.runJob(spec.id, guarded)
		})

		s.logger.WithFields(logrus.Fields{
			"component":     "scheduler",
			"job_id":        spec.id,
			"schedule":      schedule,
			"initial_delay": delay,
		}).Info("Scheduled job added")
	}

	return nil
}

// runJob executes a job with status tracking and panic recovery. A
// per-job lock keeps manual triggers and initial runs from overlapping
// a run already in flight; the overlapping run is dropped, matching
// what the cron chain does for scheduled fires.
func (s *UpdateScheduler) runJob(id string, jobFunc func()) {
	s.mu.RLock()
	lock, known := s.jobLocks[id]
	s.mu.RUnlock()
	if !known {
		return
	}

	if !lock.TryLock() {
		s.logger.WithFields(logrus.Fields{
			"component": "scheduler",
			"job_id":    id,
		}).Warn("Job still running, skipping overlapping run")
		return
	}
	defer lock.Unlock()

	s.mu.Lock()
	job, exists := s.jobs[id]
	if !exists {
		s.mu.Unlock()
		return
	}
	job.Status = "running"
	job.LastRun = time.Now()
	job.RunCount++
	s.jobs[id] = job
	s.mu.Unlock()

	logger := s.logger.WithFields(logrus.Fields{
		"component": "scheduler",
		"job_id":    id,
		"run_count": job.RunCount,
	})

	logger.Debug("Starting scheduled job")
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Job panicked")
			s.updateJobStatus(id, "failed", fmt.Sprintf("panic: %v", r), time.Since(startTime))
		}
	}()

	jobFunc()

	duration := time.Since(startTime)
	logger.WithField("duration", duration).Debug("Job completed")
	s.updateJobStatus(id, "completed", "", duration)
}

func (s *UpdateScheduler) updateJobStatus(id, status, errorMsg string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return
	}

	job.Status = status
	job.Duration = duration
	if errorMsg != "" {
		job.ErrorCount++
		job.LastError = errorMsg
	}
	s.jobs[id] = job
}

func (s *UpdateScheduler) recordJobError(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return
	}
	job.ErrorCount++
	job.LastError = err.Error()
	s.jobs[id] = job
}

func (s *UpdateScheduler) runWorldRankings() {
	if err := s.pga.SyncWorldRankings(s.ctx); err != nil {
		s.logger.WithError(err).Error("World rankings sync failed")
		s.recordJobError("world_rankings", err)
	}
}

func (s *UpdateScheduler) runSeasonSchedule() {
	if err := s.pga.SyncSeasonSchedule(s.ctx); err != nil {
		s.logger.WithError(err).Error("Season schedule sync failed")
		s.recordJobError("season_schedule", err)
	}
}

func (s *UpdateScheduler) runTournamentDetails() {
	if err := s.pga.SyncTournamentDetails(s.ctx); err != nil {
		s.logger.WithError(err).Error("Tournament details sync failed")
		s.recordJobError("tournament_details", err)
	}
}

func (s *UpdateScheduler) runRoundScores() {
	if err := s.pga.SyncRoundScores(s.ctx); err != nil {
		s.logger.WithError(err).Error("Round scores sync failed")
		s.recordJobError("round_scores", err)
	}
}

func (s *UpdateScheduler) runGameSync() {
	if err := s.sync.UpdateGames(s.ctx); err != nil {
		s.logger.WithError(err).Error("Game recompute pass failed")
		s.recordJobError("game_sync", err)
	}
}

// TriggerJob runs a job immediately, outside its schedule.
func (s *UpdateScheduler) TriggerJob(id string) error {
	s.mu.RLock()
	jobFunc, exists := s.jobFuncs[id]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("unknown job: %s", id)
	}

	go s.runJob(id, jobFunc)
	return nil
}

// GetJobs returns a snapshot of all job states.
func (s *UpdateScheduler) GetJobs() map[string]JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]JobInfo, len(s.jobs))
	for id, job := range s.jobs {
		jobs[id] = job
	}
	return jobs
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *UpdateScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cancel()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.isRunning = false

	s.logger.WithField("component", "scheduler").Info("Update scheduler stopped")
}
