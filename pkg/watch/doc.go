// Package watch runs callbacks when reactive sources change.
//
// Watch observes a ref, a reactive proxy, a getter or a slice of these and
// calls back with the new and previous value. WatchEffect runs a function
// immediately and again whenever anything it read changes. Both are
// scheduled through a scheduler.Scheduler: by default before component
// updates (FlushPre), optionally after them (FlushPost) or synchronously
// (FlushSync).
//
//	count := reactive.NewRef(0)
//	h := watch.Watch(count, func(n, old any, _ watch.OnCleanup) {
//	    fmt.Println(old, "->", n)
//	})
//	defer h.Stop()
package watch
