package scheduler

import (
	"log/slog"
	"slices"
	"time"
)

// DefaultRecursionLimit is the number of times a job may re-queue itself in
// one flush before it is reported and skipped.
const DefaultRecursionLimit = 100

// Observer receives flush lifecycle events.
type Observer interface {
	FlushStarted()
	FlushFinished(jobs int, d time.Duration)
	RecursionLimit(job *Job)
}

type nopObserver struct{}

func (nopObserver) FlushStarted()                    {}
func (nopObserver) FlushFinished(int, time.Duration) {}
func (nopObserver) RecursionLimit(*Job)              {}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRecursionLimit overrides DefaultRecursionLimit.
func WithRecursionLimit(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.recursionLimit = n
		}
	}
}

// WithErrorHandler installs the handler that receives user callback errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Scheduler) { s.errorHandler = h }
}

// WithRethrow makes unhandled errors panic instead of being logged.
func WithRethrow() Option {
	return func(s *Scheduler) { s.rethrow = true }
}

// WithLogger sets the logger for unhandled errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers a flush observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observer = o
		}
	}
}

// Scheduler owns the job queue, the post-flush queue and the task queue
// that Drain pumps.
type Scheduler struct {
	queue      []*Job
	flushIndex int
	flushing   bool
	pending    bool

	pendingPost    []*Job
	activePost     []*Job
	postFlushIndex int

	tasks []func()

	recursionLimit int
	errorHandler   ErrorHandler
	rethrow        bool
	logger         *slog.Logger
	observer       Observer
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		recursionLimit: DefaultRecursionLimit,
		logger:         slog.Default(),
		observer:       nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScheduler = New()

// Default returns the package scheduler used when none is supplied.
func Default() *Scheduler { return defaultScheduler }

// SetDefault replaces the package scheduler.
func SetDefault(s *Scheduler) {
	if s == nil {
		s = New()
	}
	defaultScheduler = s
}

// Pending reports whether a flush has been requested but not started.
func (s *Scheduler) Pending() bool { return s.pending }

// Flushing reports whether a flush is in progress.
func (s *Scheduler) Flushing() bool { return s.flushing }

// Len returns the number of jobs waiting in the main queue.
func (s *Scheduler) Len() int { return len(s.queue) - s.flushIndex }

// Drain runs queued tasks, including flushes and NextTick callbacks, until
// none are left.
func (s *Scheduler) Drain() {
	for len(s.tasks) > 0 {
		task := s.tasks[0]
		s.tasks[0] = nil
		s.tasks = s.tasks[1:]
		task()
	}
}

// NextTick schedules fn after the pending flush, or after the current
// task if none is pending. The returned channel is closed once fn ran.
func (s *Scheduler) NextTick(fn func()) <-chan struct{} {
	done := make(chan struct{})
	s.tasks = append(s.tasks, func() {
		defer close(done)
		if fn != nil {
			fn()
		}
	})
	return done
}

// findInsertionIndex finds the first slot after the current flush position
// whose job sorts after a job with the given id.
func (s *Scheduler) findInsertionIndex(id int) int {
	end := len(s.queue)
	start := min(s.flushIndex+1, end)
	for start < end {
		middle := int(uint(start+end) >> 1)
		job := s.queue[middle]
		if job.ID < id || (job.ID == id && job.Pre) {
			start = middle + 1
		} else {
			end = middle
		}
	}
	return start
}

// QueueJob adds job to the main queue unless it is already waiting there.
// A running job is not considered waiting when it allows recursion.
func (s *Scheduler) QueueJob(job *Job) {
	from := s.flushIndex
	if s.flushing && job.AllowRecurse {
		from++
	}
	if from < len(s.queue) && slices.Contains(s.queue[from:], job) {
		return
	}
	if job.ID == NoID {
		s.queue = append(s.queue, job)
	} else {
		s.queue = slices.Insert(s.queue, s.findInsertionIndex(job.ID), job)
	}
	s.queueFlush()
}

func (s *Scheduler) queueFlush() {
	if !s.flushing && !s.pending {
		s.pending = true
		s.tasks = append(s.tasks, func() { s.flushJobs(nil) })
	}
}

// InvalidateJob removes job from the queue if it has not run yet in this
// flush.
func (s *Scheduler) InvalidateJob(job *Job) {
	i := slices.Index(s.queue, job)
	if i > s.flushIndex {
		s.queue = slices.Delete(s.queue, i, i+1)
	}
}

// QueuePostFlushCb adds callbacks to run after the main queue drains.
func (s *Scheduler) QueuePostFlushCb(cbs ...*Job) {
	if len(cbs) == 1 {
		cb := cbs[0]
		from := s.postFlushIndex
		if cb.AllowRecurse {
			from++
		}
		if s.activePost == nil || from >= len(s.activePost) || !slices.Contains(s.activePost[from:], cb) {
			s.pendingPost = append(s.pendingPost, cb)
		}
	} else {
		// Lifecycle hook batches are deduplicated by the caller.
		s.pendingPost = append(s.pendingPost, cbs...)
	}
	s.queueFlush()
}

// FlushPreFlushCbs runs every queued pre job ahead of the current flush
// position.
func (s *Scheduler) FlushPreFlushCbs() { s.flushPre(0, false) }

// FlushPreFlushCbsFor runs the queued pre jobs whose id is instanceID.
func (s *Scheduler) FlushPreFlushCbsFor(instanceID int) { s.flushPre(instanceID, true) }

func (s *Scheduler) flushPre(id int, filter bool) {
	seen := map[*Job]int{}
	i := 0
	if s.flushing {
		i = s.flushIndex + 1
	}
	for ; i < len(s.queue); i++ {
		job := s.queue[i]
		if job == nil || !job.Pre {
			continue
		}
		if filter && job.ID != id {
			continue
		}
		if s.checkRecursiveUpdates(seen, job) {
			continue
		}
		s.queue = slices.Delete(s.queue, i, i+1)
		i--
		job.Run()
	}
}

// FlushPostFlushCbs runs pending post-flush callbacks, deduplicated and
// ordered by id.
func (s *Scheduler) FlushPostFlushCbs() { s.flushPost(nil) }

func (s *Scheduler) flushPost(seen map[*Job]int) {
	if len(s.pendingPost) == 0 {
		return
	}
	deduped := make([]*Job, 0, len(s.pendingPost))
	have := make(map[*Job]struct{}, len(s.pendingPost))
	for _, cb := range s.pendingPost {
		if _, ok := have[cb]; ok {
			continue
		}
		have[cb] = struct{}{}
		deduped = append(deduped, cb)
	}
	clear(s.pendingPost)
	s.pendingPost = s.pendingPost[:0]

	// Already flushing post callbacks: the running loop picks these up.
	if s.activePost != nil {
		s.activePost = append(s.activePost, deduped...)
		return
	}

	s.activePost = deduped
	if seen == nil {
		seen = map[*Job]int{}
	}
	slices.SortStableFunc(s.activePost, func(a, b *Job) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	defer func() {
		s.activePost = nil
		s.postFlushIndex = 0
	}()
	for s.postFlushIndex = 0; s.postFlushIndex < len(s.activePost); s.postFlushIndex++ {
		cb := s.activePost[s.postFlushIndex]
		if !cb.Active() {
			continue
		}
		if s.checkRecursiveUpdates(seen, cb) {
			continue
		}
		s.CallWithErrorHandling(cb.Run, CodePostFlush, cb.Name)
	}
}

func (s *Scheduler) flushJobs(seen map[*Job]int) {
	s.pending = false
	s.flushing = true
	if seen == nil {
		seen = map[*Job]int{}
	}
	s.observer.FlushStarted()
	start := time.Now()
	ran := 0

	// Parents are created before children, so sorting by id updates parents
	// first and skips children a parent unmounted.
	slices.SortStableFunc(s.queue, compareJobs)

	defer func() {
		s.flushIndex = 0
		clear(s.queue)
		s.queue = s.queue[:0]

		s.flushPost(seen)

		s.flushing = false
		s.observer.FlushFinished(ran, time.Since(start))
		if len(s.queue) > 0 || len(s.pendingPost) > 0 {
			s.flushJobs(seen)
		}
	}()

	for s.flushIndex = 0; s.flushIndex < len(s.queue); s.flushIndex++ {
		job := s.queue[s.flushIndex]
		if job == nil || !job.Active() {
			continue
		}
		if s.checkRecursiveUpdates(seen, job) {
			continue
		}
		s.CallWithErrorHandling(job.Run, CodeScheduler, job.Name)
		ran++
	}
}

// checkRecursiveUpdates counts runs of job within one flush. Past the limit
// the job is reported once and skipped from then on.
func (s *Scheduler) checkRecursiveUpdates(seen map[*Job]int, job *Job) bool {
	count, ok := seen[job]
	if !ok {
		seen[job] = 1
		return false
	}
	if count > s.recursionLimit {
		if count == s.recursionLimit+1 {
			seen[job] = count + 1
			s.observer.RecursionLimit(job)
			s.HandleError(recursionError(job, s.recursionLimit), CodeRecursionLimit, job.String())
		}
		return true
	}
	seen[job] = count + 1
	return false
}
