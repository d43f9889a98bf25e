// Package renderer patches virtual node trees onto a host tree.
//
// A Renderer compares a new VNode tree against the previous one and applies
// the minimal set of host operations: text updates, prop changes, inserts,
// removals and moves. Keyed children are reconciled with a
// longest-increasing-subsequence pass so that only nodes outside the
// longest stable run are moved.
//
// Components get a render effect whose re-runs are queued on the
// scheduler by uid, so parents always update before their children within
// a flush. Lifecycle hooks registered during setup run as post-flush
// callbacks.
//
// A Renderer is confined to one goroutine, like the scheduler it uses.
package renderer
