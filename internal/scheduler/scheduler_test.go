package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string {
	return "counting"
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 1h", &countingJob{}))
	require.NoError(t, s.AddJob("0 */5 * * * *", &countingJob{}))
	require.NoError(t, s.AddJob("0 3 * * *", &countingJob{}))
	assert.Equal(t, 3, s.Entries())

	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Equal(t, 3, s.Entries())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	require.NoError(t, s.AddJob("* * * * * *", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.RunNow(job))
	assert.Equal(t, int32(1), job.runs.Load())

	job.err = errors.New("failed")
	assert.Error(t, s.RunNow(job))
}

type panickingJob struct {
	runs atomic.Int32
}

func (j *panickingJob) Run() error {
	j.runs.Add(1)
	panic("boom")
}

func (j *panickingJob) Name() string {
	return "panicking"
}

func TestScheduler_RecoversPanickingJob(t *testing.T) {
	s := New(zerolog.Nop())
	job := &panickingJob{}

	require.NoError(t, s.AddJob("* * * * * *", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() > 1
	}, 4*time.Second, 50*time.Millisecond)
}

type slowJob struct {
	running atomic.Int32
	overlap atomic.Bool
	runs    atomic.Int32
}

func (j *slowJob) Run() error {
	if j.running.Add(1) > 1 {
		j.overlap.Store(true)
	}
	defer j.running.Add(-1)
	j.runs.Add(1)
	time.Sleep(1500 * time.Millisecond)
	return nil
}

func (j *slowJob) Name() string {
	return "slow"
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &slowJob{}

	require.NoError(t, s.AddJob("* * * * * *", job))
	s.Start()

	time.Sleep(3500 * time.Millisecond)
	s.Stop()

	assert.Positive(t, job.runs.Load())
	assert.False(t, job.overlap.Load())
}

func TestScheduler_AddJobErrorNamesJob(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("every tuesday", &countingJob{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting")
}
