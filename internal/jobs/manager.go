package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds a single job run.
const runTimeout = time.Minute

// Manager schedules the housekeeping jobs.
type Manager struct {
	schedule string
	jobs     []job
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a manager running both housekeeping jobs on schedule,
// a standard five-field cron expression or a descriptor such as "@hourly".
func NewManager(
	schedule string,
	notifications NotificationPurger,
	retention time.Duration,
	tokens TokenPurger,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		schedule: schedule,
		jobs: []job{
			notificationRetentionJob{purger: notifications, retention: retention},
			revokedTokenPurgeJob{purger: tokens},
		},
		cron:   cron.New(),
		logger: logger.With("component", "housekeeping"),
		now:    time.Now,
	}
}

// StartAll registers every job and starts the scheduler.
// Returns an error if the schedule cannot be parsed; nothing is started then.
func (m *Manager) StartAll() error {
	for _, j := range m.jobs {
		if _, err := m.cron.AddFunc(m.schedule, func() { m.run(context.Background(), j) }); err != nil {
			m.cron = cron.New()
			return fmt.Errorf("jobs.Manager.StartAll: schedule %s: %w", j.Name(), err)
		}
	}
	m.cron.Start()
	m.logger.Info("housekeeping jobs started", "schedule", m.schedule, "jobs", len(m.jobs))
	return nil
}

// StopAll stops the scheduler and waits for running jobs to finish.
func (m *Manager) StopAll() {
	<-m.cron.Stop().Done()
	m.logger.Info("housekeeping jobs stopped")
}

// RunOnce runs every job immediately, in order, and returns the first error.
// Later jobs still run when an earlier one fails.
func (m *Manager) RunOnce(ctx context.Context) error {
	var first error
	for _, j := range m.jobs {
		if err := m.run(ctx, j); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Manager) run(ctx context.Context, j job) error {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	n, err := j.Run(ctx, m.now())
	if err != nil {
		m.logger.ErrorContext(ctx, "housekeeping job failed", "job", j.Name(), "error", err)
		return fmt.Errorf("jobs.%s: %w", j.Name(), err)
	}
	if n > 0 {
		m.logger.InfoContext(ctx, "housekeeping job purged rows", "job", j.Name(), "rows", n)
	}
	return nil
}
