package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/aristath/fandance/internal/testing"
)

func TestDatabaseMaintenanceJob_Name(t *testing.T) {
	job := &DatabaseMaintenanceJob{log: zerolog.Nop()}
	assert.Equal(t, "database_maintenance", job.Name())
}

func TestDatabaseMaintenanceJob_NilDatabase(t *testing.T) {
	job := NewDatabaseMaintenanceJob(nil)
	assert.NoError(t, job.Run())
}

func TestDatabaseMaintenanceJob_Run(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	defer cleanup()

	testingpkg.SeedPortfolio(t, db.Conn(), "user-1", "Main")

	job := NewDatabaseMaintenanceJob(db)
	job.SetLogger(zerolog.Nop())
	require.NoError(t, job.Run())

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Positive(t, stats.PageCount)
}

func TestDatabaseMaintenanceJob_ClosedDatabase(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	defer cleanup()
	require.NoError(t, db.Close())

	assert.Error(t, NewDatabaseMaintenanceJob(db).Run())
}
