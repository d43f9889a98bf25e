package scheduler

import (
	"errors"
	"fmt"
	"runtime/debug"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// ErrorCode identifies where a user callback failed. Values are registered
// error codes.
type ErrorCode string

const (
	CodeRecursionLimit  ErrorCode = "R001"
	CodeScheduler       ErrorCode = "R002"
	CodePostFlush       ErrorCode = "R003"
	CodeRender          ErrorCode = "R010"
	CodeSetup           ErrorCode = "R011"
	CodeLifecycleHook   ErrorCode = "R012"
	CodeComponentUpdate ErrorCode = "R013"
	CodeWatchGetter     ErrorCode = "R020"
	CodeWatchCallback   ErrorCode = "R021"
	CodeWatchCleanup    ErrorCode = "R022"
	CodeAppErrorHandler ErrorCode = "R031"
)

// ErrRecursionLimit is reported when a job re-queues itself more times than
// the recursion limit allows within one flush.
var ErrRecursionLimit = errors.New("reactor: maximum recursive updates exceeded")

// ErrorHandler receives errors raised by user callbacks. err is always a
// *errors.Error from the internal registry and wraps the original value.
type ErrorHandler func(err error, code ErrorCode)

// CallWithErrorHandling runs fn and routes a panic to the error handler.
// It reports whether fn returned normally.
func (s *Scheduler) CallWithErrorHandling(fn func(), code ErrorCode, source string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			s.HandleError(r, code, source)
		}
	}()
	fn()
	return true
}

// CallValue is CallWithErrorHandling for functions that produce a value.
// On panic the zero value is returned.
func CallValue[T any](s *Scheduler, fn func() T, code ErrorCode, source string) (v T, ok bool) {
	ok = s.CallWithErrorHandling(func() { v = fn() }, code, source)
	return v, ok
}

// HandleError converts err (a recovered panic value or an error) into a
// structured error and dispatches it.
func (s *Scheduler) HandleError(err any, code ErrorCode, source string) {
	e := rerrors.FromPanic(err, string(code))
	if e == nil {
		return
	}
	if source != "" && e.Source == "" {
		e = e.WithSource(source)
	}

	if s.errorHandler != nil {
		handled := func() (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					ok = false
					s.logger.Error("reactor: error handler panicked",
						"code", CodeAppErrorHandler,
						"error", rerrors.FromPanic(r, string(CodeAppErrorHandler)))
				}
			}()
			s.errorHandler(e, code)
			return true
		}()
		if handled {
			return
		}
	}

	if s.rethrow {
		panic(e)
	}
	s.logger.Error("reactor: unhandled error",
		"code", code,
		"source", source,
		"error", e.Error(),
		"stack", string(debug.Stack()))
}

func recursionError(j *Job, limit int) *rerrors.Error {
	return rerrors.New(string(CodeRecursionLimit)).
		WithSource(j.String()).
		Wrap(fmt.Errorf("%w: %s exceeded %d", ErrRecursionLimit, j, limit))
}
