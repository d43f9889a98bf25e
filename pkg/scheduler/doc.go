// Package scheduler batches reactive work into ordered flushes.
//
// Jobs are queued by id (components use their creation order, so parents
// update before children) and each flush runs pre jobs, regular jobs and
// then post-flush callbacks until all queues are empty. The queue never
// runs on its own: callers pump it with Drain, which stands in for the
// host's microtask checkpoint.
//
//	s := scheduler.New()
//	s.QueueJob(scheduler.NewJob(update, scheduler.WithID(1)))
//	s.Drain()
//
// A Scheduler is confined to one goroutine, the same one that owns the
// reactive state it serves.
package scheduler
