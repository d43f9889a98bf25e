// Package devserver serves a running reactor tree for inspection.
//
// Routes:
//
//	GET  /tree                  serialized HTML of the document
//	GET  /ws                    WebSocket: a snapshot, then one message per host op
//	POST /dispatch/{id}/{event} invoke a node's handler and flush the scheduler
//	GET  /metrics               Prometheus metrics
//
// # Usage
//
//	doc := memdom.New()
//	srv := devserver.New(doc, devserver.WithFlush(sched.Drain))
//	srv.Do(func() { r.Render(view, doc.Root()) })
//	log.Fatal(srv.ListenAndServe(ctx, ":7420"))
package devserver
