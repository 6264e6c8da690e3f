package cron

import (
	"context"
	"sync"
	"time"

	"github.com/famquest/backend/pkg/xcontext"
)

// Job is a unit of recurring work. After each run the job is rescheduled for
// the time reported by Next; a job whose RunNow reports true also gets an
// immediate first run.
type Job interface {
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

// Scheduler drives a fixed set of jobs, each on its own timer. Add every job
// before calling Run; Stop cancels the pending timers and unblocks Run.
type Scheduler struct {
	mutex   sync.Mutex
	stopped bool
	jobs    []Job
	timers  map[Job]*time.Timer
	quit    chan struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: map[Job]*time.Timer{},
		quit:   make(chan struct{}),
	}
}

func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run starts every job and blocks until Stop is called.
func (s *Scheduler) Run(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Scheduler started with %d jobs", len(s.jobs))

	for _, job := range s.jobs {
		if job.RunNow() {
			go s.run(ctx, job)
		} else {
			s.reschedule(ctx, job)
		}
	}

	<-s.quit
	xcontext.Logger(ctx).Infof("Scheduler stopped")
}

// Stop is idempotent. A job already in flight finishes its current run but is
// not rescheduled.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.stopped {
		return
	}

	s.stopped = true
	for _, timer := range s.timers {
		timer.Stop()
	}

	close(s.quit)
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	xcontext.Logger(ctx).Infof("%T is running", job)
	job.Do(ctx)
	s.reschedule(ctx, job)
}

func (s *Scheduler) reschedule(ctx context.Context, job Job) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.stopped {
		return
	}

	s.timers[job] = time.AfterFunc(time.Until(job.Next()), func() { s.run(ctx, job) })
}
