package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled task owned by the JobManager.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops the background jobs as a group.
type JobManager struct {
	jobs    []Job
	started []Job
}

func NewJobManager(jobs ...Job) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts jobs in order. If one fails, the ones already running are
// stopped before the error is returned.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start job %d (%T): %w", i, job, err)
		}
		jm.started = append(jm.started, job)
	}
	return nil
}

// StopAll stops running jobs in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}

// newCron runs with second precision and never overlaps two passes of one job.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
