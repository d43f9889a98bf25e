package scheduler

import "math"

// NoID marks a job without an id. Such jobs sort after every numbered job.
const NoID = math.MaxInt

// Job is a unit of scheduled work.
type Job struct {
	// ID orders jobs within a flush. Components use their uid.
	ID int

	// Pre jobs run before regular jobs with the same id and are eligible
	// for FlushPreFlushCbs.
	Pre bool

	// AllowRecurse lets a job queue itself while it is running.
	AllowRecurse bool

	// Name identifies the job in errors and metrics.
	Name string

	fn       func()
	inactive bool
}

// JobOption configures a Job.
type JobOption func(*Job)

// WithID sets the ordering id.
func WithID(id int) JobOption {
	return func(j *Job) { j.ID = id }
}

// Pre marks the job as a pre-flush job.
func Pre() JobOption {
	return func(j *Job) { j.Pre = true }
}

// AllowRecurse permits the job to re-queue itself during its own run.
func AllowRecurse() JobOption {
	return func(j *Job) { j.AllowRecurse = true }
}

// Named sets the job name.
func Named(name string) JobOption {
	return func(j *Job) { j.Name = name }
}

// NewJob wraps fn in a job. Without WithID the job has NoID.
func NewJob(fn func(), opts ...JobOption) *Job {
	j := &Job{ID: NoID, fn: fn}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run calls the job function directly.
func (j *Job) Run() {
	if j.fn != nil {
		j.fn()
	}
}

// Deactivate tombstones the job. A flush skips inactive jobs that are
// still queued.
func (j *Job) Deactivate() { j.inactive = true }

// Active reports whether the job has not been deactivated.
func (j *Job) Active() bool { return !j.inactive }

func (j *Job) String() string {
	if j.Name != "" {
		return j.Name
	}
	return "job"
}

// compareJobs orders by id with pre jobs first on ties.
func compareJobs(a, b *Job) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	case a.Pre && !b.Pre:
		return -1
	case b.Pre && !a.Pre:
		return 1
	}
	return 0
}
