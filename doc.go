// Package reactor is a fine-grained reactive engine with a virtual-node
// patcher.
//
// The packages underneath do the work:
//
//	pkg/reactive   dependency tracking, effects, proxies, refs, computed
//	pkg/scheduler  the job queue that batches effects into flushes
//	pkg/watch      watch and watchEffect on top of effects and the scheduler
//	pkg/vdom       VNode construction
//	pkg/renderer   mounting, patching and the keyed children diff
//	pkg/host/memdom an in-memory host tree
//
// This package wires them into an App:
//
//	counter := vdom.Func("counter", func(_ *reactive.ObjectProxy, _ vdom.Context) vdom.RenderFunc {
//	    count := reactive.NewRef(0)
//	    return func() *vdom.VNode {
//	        return vdom.Button(vdom.OnClick(func() { count.SetValue(count.Value() + 1) }), fmt.Sprint(count.Value()))
//	    }
//	})
//
//	app := reactor.New(reactor.DefaultConfig())
//	app.Mount(counter, nil, nil)
package reactor
