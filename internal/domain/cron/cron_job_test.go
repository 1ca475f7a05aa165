package cron

import (
	"context"
	"testing"
	"time"

	"github.com/reciteclub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type recordingJob struct {
	runs  chan time.Time
	now   bool
	every time.Duration
}

func (j *recordingJob) Do(ctx context.Context) {
	j.runs <- time.Now()
}

func (j *recordingJob) RunNow() bool {
	return j.now
}

func (j *recordingJob) Next() time.Time {
	return time.Now().Add(j.every)
}

func waitRun(t *testing.T, job *recordingJob) {
	t.Helper()
	select {
	case <-job.runs:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "job did not run in time")
	}
}

func waitScheduled(t *testing.T, manager *CronJobManager, job CronJob) {
	t.Helper()
	require.Eventually(t, func() bool {
		manager.mutex.Lock()
		defer manager.mutex.Unlock()
		return manager.jobs[job] != nil
	}, 5*time.Second, 10*time.Millisecond)
}

func Test_CronJobManager_runNow(t *testing.T) {
	ctx := testutil.MockContext()
	manager := NewCronJobManager()
	job := &recordingJob{runs: make(chan time.Time, 16), now: true, every: time.Hour}
	manager.Register(job)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	// A run-now job fires without waiting for its schedule, then is armed
	// for the next tick.
	waitRun(t, job)
	waitScheduled(t, manager, job)

	manager.Cancel(ctx)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "manager did not stop after cancel")
	}
}

func Test_CronJobManager_reschedule(t *testing.T) {
	ctx := testutil.MockContext()
	manager := NewCronJobManager()
	job := &recordingJob{runs: make(chan time.Time, 16), every: 20 * time.Millisecond}
	manager.Register(job)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	// A scheduled job keeps firing: each run arms the next one.
	waitRun(t, job)
	waitRun(t, job)

	waitScheduled(t, manager, job)
	manager.Cancel(ctx)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "manager did not stop after cancel")
	}
}
