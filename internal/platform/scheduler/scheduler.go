// Package scheduler provides a registry of named periodic jobs. Each enabled
// job runs once at Start and then on its own ticker until Stop. A job's
// failure (error or panic) is contained by the run wrapper and never reaches
// the timer machinery or another job's schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRunsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scheduler",
			Name:      "job_runs_total",
			Help:      "Total number of job runs, by job and outcome.",
		},
		[]string{"job", "status"}, // status: success | failure | skipped
	)
	jobRunDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scheduler",
			Name:      "job_run_duration_seconds",
			Help:      "Wall-clock duration of job runs.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)

// Job is a named periodic task. Run is invoked with the context passed to
// Start; it must return rather than panic, but panics are contained anyway.
type Job struct {
	Name     string
	Enabled  bool
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// JobState tracks the scheduler-level lifecycle of a registered job.
// Run failures never change a job's state; only Start/Stop do.
type JobState int

const (
	StateRegistered JobState = iota
	StateRunning
	StateStopped
)

func (s JobState) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type jobEntry struct {
	job      Job
	state    JobState
	quit     chan struct{}
	inFlight bool
}

// Scheduler owns the job registry. Construct one explicitly with New and pass
// it to the process bootstrap; there is no package-level singleton.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]*jobEntry
	order   []string
	started bool
	wg      sync.WaitGroup
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		jobs:   make(map[string]*jobEntry),
		logger: logger.With("component", "scheduler"),
	}
}

// Register adds a job to the registry. Registering a duplicate name is a
// no-op with a warning: the first registration wins and is not restarted.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		s.logger.Warn("Job is already registered, skipping", "job", job.Name)
		return
	}

	s.jobs[job.Name] = &jobEntry{job: job, state: StateRegistered}
	s.order = append(s.order, job.Name)
	s.logger.Info("Registered job", "job", job.Name, "interval", job.Interval, "enabled", job.Enabled)
}

// Start runs every enabled job once immediately and then on its interval.
// Calling Start while the scheduler is already running is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		s.logger.Warn("Scheduler is already running")
		return
	}
	s.started = true

	var toStart []*jobEntry
	for _, name := range s.order {
		entry := s.jobs[name]
		if !entry.job.Enabled {
			s.logger.Info("Job is disabled, skipping", "job", name)
			continue
		}
		entry.state = StateRunning
		entry.quit = make(chan struct{})
		toStart = append(toStart, entry)
	}
	s.mu.Unlock()

	s.logger.Info("Starting job scheduler", "jobs", len(toStart))

	for _, entry := range toStart {
		s.wg.Add(1)
		go s.runLoop(ctx, entry)
	}
}

// Stop cancels every job's periodic timer. In-flight runs are not cancelled;
// they complete naturally. After Stop the scheduler can be started again.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	for _, name := range s.order {
		entry := s.jobs[name]
		if entry.state == StateRunning {
			close(entry.quit)
			entry.state = StateStopped
		}
	}
	s.mu.Unlock()

	s.logger.Info("Scheduler stopped, tickers cancelled")
}

// Wait blocks until all run loops have exited. Useful for orderly shutdown
// after Stop; does not wait for in-flight runs spawned before Stop to finish
// their work, only for the loops to observe the quit signal.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// State returns the lifecycle state of a registered job.
func (s *Scheduler) State(name string) (JobState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.jobs[name]
	if !ok {
		return 0, false
	}
	return entry.state, true
}

// Jobs returns the registered jobs in registration order.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.jobs[name].job)
	}
	return out
}

func (s *Scheduler) runLoop(ctx context.Context, entry *jobEntry) {
	defer s.wg.Done()

	// Run immediately on start, then on the interval.
	s.runJob(ctx, entry)

	ticker := time.NewTicker(entry.job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runJob(ctx, entry)
		case <-entry.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runJob executes one run with duration measurement and failure containment.
// If the previous run of the same job is still in flight the tick is skipped:
// a single job never runs concurrently with itself.
func (s *Scheduler) runJob(ctx context.Context, entry *jobEntry) {
	s.mu.Lock()
	if entry.inFlight {
		s.mu.Unlock()
		s.logger.Warn("Previous run still in flight, skipping tick", "job", entry.job.Name)
		jobRunsCounter.WithLabelValues(entry.job.Name, "skipped").Inc()
		return
	}
	entry.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		entry.inFlight = false
		s.mu.Unlock()
	}()

	start := time.Now()
	s.logger.InfoContext(ctx, "Running job", "job", entry.job.Name)

	err := s.safeRun(ctx, entry.job)
	duration := time.Since(start)
	jobRunDurationHist.WithLabelValues(entry.job.Name).Observe(duration.Seconds())

	if err != nil {
		jobRunsCounter.WithLabelValues(entry.job.Name, "failure").Inc()
		s.logger.ErrorContext(ctx, "Job failed", "job", entry.job.Name, "duration", duration, "error", err)
		return
	}
	jobRunsCounter.WithLabelValues(entry.job.Name, "success").Inc()
	s.logger.InfoContext(ctx, "Job completed", "job", entry.job.Name, "duration", duration)
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Job: job.Name, Value: r}
		}
	}()
	return job.Run(ctx)
}

// PanicError wraps a panic recovered from a job run.
type PanicError struct {
	Job   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job %s panicked: %v", e.Job, e.Value)
}
