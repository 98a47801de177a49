package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
)

// maintenanceTimeout bounds a single maintenance run
const maintenanceTimeout = 2 * time.Minute

// DatabaseMaintenanceJob verifies store integrity, truncates the WAL
// and refreshes planner statistics
type DatabaseMaintenanceJob struct {
	log zerolog.Logger
	db  *database.DB
}

// NewDatabaseMaintenanceJob creates a new DatabaseMaintenanceJob
func NewDatabaseMaintenanceJob(db *database.DB) *DatabaseMaintenanceJob {
	return &DatabaseMaintenanceJob{
		log: zerolog.Nop(),
		db:  db,
	}
}

// SetLogger sets the logger for the job
func (j *DatabaseMaintenanceJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *DatabaseMaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes the maintenance job
func (j *DatabaseMaintenanceJob) Run() error {
	if j.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()

	if err := j.db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		return err
	}

	if err := j.db.Optimize(ctx); err != nil {
		return err
	}

	event := j.log.Info().Str("database", j.db.Name())
	if stats, err := j.db.GetStats(); err == nil {
		event = event.
			Int64("size_bytes", stats.SizeBytes).
			Int64("wal_size_bytes", stats.WALSizeBytes).
			Int64("freelist_count", stats.FreelistCount)
	} else {
		j.log.Warn().Err(err).Msg("Failed to read database stats")
	}
	event.Msg("Database maintenance completed")

	return nil
}
