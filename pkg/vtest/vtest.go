package vtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Harness is a component mounted on a memdom document with its own
// scheduler. Errors raised by user callbacks fail the test.
type Harness struct {
	t     testing.TB
	Doc   *memdom.Document
	Sched *scheduler.Scheduler
	R     *renderer.Renderer
	Root  *vdom.VNode
}

// Mount renders component with props and flushes. The component is
// unmounted when the test finishes.
func Mount(t testing.TB, component vdom.Component, props vdom.Props) *Harness {
	t.Helper()
	h := &Harness{t: t, Doc: memdom.New()}
	h.Sched = scheduler.New(scheduler.WithErrorHandler(func(err error, code scheduler.ErrorCode) {
		t.Errorf("%s: %v", code, err)
	}))
	h.R = renderer.New(h.Doc, renderer.WithScheduler(h.Sched))
	h.Root = vdom.Comp(component, props)
	h.R.Render(h.Root, h.Doc.Root())
	h.Sched.Drain()
	t.Cleanup(func() {
		h.R.Unmount(h.Doc.Root())
		h.Sched.Drain()
	})
	return h
}

// RenderToString mounts node on a fresh document and returns its HTML.
//
// Example:
//
//	html := vtest.RenderToString(vdom.Div(vdom.Class("card"), "Hello"))
func RenderToString(node *vdom.VNode) string {
	doc := memdom.New()
	s := scheduler.New()
	renderer.New(doc, renderer.WithScheduler(s)).Render(node, doc.Root())
	s.Drain()
	return doc.HTML()
}

// HTML returns the serialized tree.
func (h *Harness) HTML() string { return h.Doc.HTML() }

// Flush runs queued renders, watchers and post-flush callbacks.
func (h *Harness) Flush() { h.Sched.Drain() }

// ResetOps clears the operation log.
func (h *Harness) ResetOps() { h.Doc.ResetOps() }

// Find returns the first node matching selector (#id, .class or tag), or
// fails the test.
func (h *Harness) Find(selector string) *memdom.Node {
	h.t.Helper()
	n, _ := h.Doc.QuerySelector(selector).(*memdom.Node)
	if n == nil {
		h.t.Fatalf("no node matches %q in:\n%s", selector, truncate(h.HTML(), 500))
	}
	return n
}

// Dispatch invokes the handler for event on the node matching selector and
// flushes.
func (h *Harness) Dispatch(selector, event string, arg any) {
	h.t.Helper()
	if !h.Doc.Dispatch(h.Find(selector), event, arg) {
		h.t.Fatalf("%s has no %s handler", selector, event)
	}
	h.Flush()
}

// Click dispatches a click on the node matching selector and flushes.
func (h *Harness) Click(selector string) {
	h.t.Helper()
	h.Dispatch(selector, "click", nil)
}

// ExpectHTML asserts that the tree serializes to exactly want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("HTML = %s, want %s", got, want)
	}
}

// ExpectContains asserts that rendered output contains substring.
//
// Example:
//
//	h.ExpectContains("Welcome")
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the tree contains a tag.
//
// Example:
//
//	h.ExpectElement("button")
func (h *Harness) ExpectElement(tag string) {
	h.t.Helper()
	if h.Doc.QuerySelector(tag) == nil {
		h.t.Errorf("expected rendered output to contain <%s>, got:\n%s", tag, truncate(h.HTML(), 500))
	}
}

// ExpectAttribute asserts that the node matching selector has attr set to
// value.
func (h *Harness) ExpectAttribute(selector, attr, value string) {
	h.t.Helper()
	n := h.Find(selector)
	got, ok := n.Attrs[attr]
	if !ok {
		h.t.Errorf("%s has no %s attribute", selector, attr)
		return
	}
	if s := fmt.Sprint(got); s != value {
		h.t.Errorf("%s %s = %q, want %q", selector, attr, s, value)
	}
}

// ExpectOps asserts the number of recorded operations of kind since the
// last ResetOps.
func (h *Harness) ExpectOps(kind memdom.OpKind, n int) {
	h.t.Helper()
	if got := h.Doc.Count(kind); got != n {
		h.t.Errorf("%s ops = %d, want %d: %v", kind, got, n, h.Doc.Ops())
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
