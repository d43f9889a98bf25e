// Package vtest provides testing helpers for reactor components.
//
// The vtest package reduces boilerplate when testing components by
// mounting them on an in-memory host and providing render assertions.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter, vdom.Props{"start": 1})
//	    h.ExpectContains("1")
//
//	    h.Click("button")
//	    h.ExpectContains("2")
//	}
//
// # Flushing
//
// Reactive writes queue re-renders; nothing reaches the host until the
// scheduler flushes. Click and Dispatch flush for you; after writing state
// directly, call Flush.
//
// # Render Assertions
//
// Assert on the serialized host tree:
//
//	h.ExpectContains("Welcome")
//	h.ExpectNotContains("Login")
//	h.ExpectElement("button")
//	h.ExpectAttribute("#save", "disabled", "true")
//
// # Operation Counts
//
// Every host operation is recorded, so tests can check how much work a
// patch did:
//
//	h.ResetOps()
//	h.Flush()
//	h.ExpectOps(memdom.OpMove, 1)
package vtest
