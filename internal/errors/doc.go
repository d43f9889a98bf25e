// Package errors provides structured, actionable errors for reactor.
//
// Every error carries a code that maps to a registered template:
//   - a short message
//   - a longer explanation
//   - an optional fix suggestion
//
// # Error Categories
//
//   - reactivity: dependency tracking and proxy misuse
//   - scheduler: job queue failures (recursion limit, job panics)
//   - render: patch engine and component render failures
//   - watch: watcher getters, callbacks and cleanups
//   - config: configuration loading
//   - cli: command-line usage
//
// # Usage
//
//	err := errors.New("R001").
//	    WithDetail("job <Counter.update> re-queued itself 101 times").
//	    Wrap(scheduler.ErrRecursionLimit)
//
//	fmt.Println(err.Format())
//	// ERROR R001: Maximum recursive updates exceeded
//	//
//	//   job <Counter.update> re-queued itself 101 times
//	//
//	//   Hint: Check for an effect that mutates its own dependencies.
package errors
