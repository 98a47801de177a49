package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/config"
	"github.com/aristath/fandance/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers the maintenance job.
// The scheduler is not started here.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	sched := scheduler.New(log)

	maintenance := scheduler.NewDatabaseMaintenanceJob(container.PortfolioDB)
	maintenance.SetLogger(log.With().Str("job", maintenance.Name()).Logger())

	if err := sched.AddJob(cfg.MaintenanceSchedule, maintenance); err != nil {
		return fmt.Errorf("failed to register %s: %w", maintenance.Name(), err)
	}

	container.Scheduler = sched
	return nil
}
