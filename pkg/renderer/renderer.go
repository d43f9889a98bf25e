package renderer

import (
	"log/slog"
	"reflect"
	"slices"
	"time"

	"github.com/vango-dev/reactor/internal/devlog"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// MoveType tells move why a node is being relocated.
type MoveType uint8

const (
	MoveEnter   MoveType = iota // node re-entering, runs enter hooks
	MoveLeave                   // node leaving, runs leave hooks
	MoveReorder                 // reorder within a keyed list, no hooks
)

// Observer receives patch events. Implementations must be cheap; they run
// inside the patch loop.
type Observer interface {
	Mounted(kind vdom.Kind)
	Unmounted(kind vdom.Kind)
	Moved(kind vdom.Kind)
	RenderStarted()
	RenderFinished(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) Mounted(vdom.Kind)            {}
func (nopObserver) Unmounted(vdom.Kind)          {}
func (nopObserver) Moved(vdom.Kind)              {}
func (nopObserver) RenderStarted()               {}
func (nopObserver) RenderFinished(time.Duration) {}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScheduler sets the scheduler component updates are queued on.
// Defaults to scheduler.Default().
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sched = s
		}
	}
}

// WithLogger sets the logger for development warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithObserver registers a patch observer.
func WithObserver(o Observer) Option {
	return func(r *Renderer) {
		if o != nil {
			r.observer = o
		}
	}
}

// DevMode enables development checks and warnings. Defaults to the
// package-wide setting (reactive.SetDevMode).
func DevMode(on bool) Option {
	return func(r *Renderer) { r.dev = on }
}

// Renderer patches VNode trees onto a host.
type Renderer struct {
	host     HostOps
	sched    *scheduler.Scheduler
	logger   *slog.Logger
	observer Observer
	dev      bool

	roots    map[any]*vdom.VNode
	uid      int
	flushing bool
}

// New creates a Renderer for host.
func New(host HostOps, opts ...Option) *Renderer {
	r := &Renderer{
		host:     host,
		sched:    scheduler.Default(),
		observer: nopObserver{},
		dev:      devlog.Enabled(),
		roots:    make(map[any]*vdom.VNode),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Host returns the host the renderer writes to.
func (r *Renderer) Host() HostOps { return r.host }

// Scheduler returns the scheduler component updates are queued on.
func (r *Renderer) Scheduler() *scheduler.Scheduler { return r.sched }

// Root returns the tree last rendered into container.
func (r *Renderer) Root(container any) *vdom.VNode { return r.roots[container] }

// Render makes container show vnode, patching against whatever was
// rendered there before. A nil vnode unmounts the previous tree. Pending
// pre and post callbacks are flushed before Render returns.
func (r *Renderer) Render(vnode *vdom.VNode, container any) {
	start := time.Now()
	r.observer.RenderStarted()
	defer func() { r.observer.RenderFinished(time.Since(start)) }()

	prev := r.roots[container]
	if vnode == nil {
		if prev != nil {
			r.unmount(prev, nil, true, false)
		}
	} else {
		r.patch(prev, vnode, container, nil, nil, vnode.IsBlock())
	}
	if !r.flushing {
		func() {
			r.flushing = true
			defer func() { r.flushing = false }()
			r.sched.FlushPreFlushCbs()
			r.sched.FlushPostFlushCbs()
		}()
	}
	if vnode == nil {
		delete(r.roots, container)
	} else {
		r.roots[container] = vnode
	}
}

// Unmount removes whatever was rendered into container.
func (r *Renderer) Unmount(container any) {
	r.Render(nil, container)
}

// Patch patches n1 into n2 inside container. n1 may be nil to mount.
// Unlike Render it does not flush callbacks or remember the tree.
func (r *Renderer) Patch(n1, n2 *vdom.VNode, container, anchor any) {
	r.patch(n1, n2, container, anchor, nil, n2.IsBlock())
}

func (r *Renderer) warn(msg string, args ...any) {
	if !r.dev {
		return
	}
	if r.logger != nil {
		r.logger.Warn("reactor: "+msg, args...)
		return
	}
	devlog.Logger().Warn("reactor: "+msg, args...)
}

func (r *Renderer) patch(n1, n2 *vdom.VNode, container, anchor any, parent *instance, optimized bool) {
	if n1 == n2 {
		return
	}
	normalizeShape(n2)

	if n1 != nil && !vdom.SameType(n1, n2) {
		anchor = r.nextHostNode(n1)
		r.unmount(n1, parent, true, false)
		n1 = nil
	}

	if n2.PatchFlag == vdom.PatchBail {
		optimized = false
		n2.DynamicChildren = nil
	}

	switch n2.Kind {
	case vdom.KindText:
		r.processText(n1, n2, container, anchor)
	case vdom.KindComment:
		r.processComment(n1, n2, container, anchor)
	case vdom.KindStatic:
		switch {
		case n1 == nil:
			r.mountStatic(n2, container, anchor)
		case r.dev:
			r.patchStatic(n1, n2, container)
		default:
			n2.El, n2.Anchor = n1.El, n1.Anchor
		}
	case vdom.KindFragment:
		r.processFragment(n1, n2, container, anchor, parent, optimized)
	case vdom.KindElement:
		if n1 == nil {
			r.mountElement(n2, container, anchor, parent, optimized)
		} else {
			r.patchElement(n1, n2, parent, optimized)
		}
	case vdom.KindComponent:
		if n1 == nil {
			r.mountComponent(n2, container, anchor, parent)
		} else {
			r.updateComponent(n1, n2, optimized)
		}
	default:
		r.warn("invalid vnode kind", "kind", n2.Kind)
	}
}

// normalizeShape fills in the shape flag for hand-built nodes.
func normalizeShape(v *vdom.VNode) {
	if v.ShapeFlag != 0 {
		return
	}
	switch v.Kind {
	case vdom.KindElement:
		v.ShapeFlag = vdom.ShapeElement
		if len(v.Children) > 0 {
			v.ShapeFlag |= vdom.ShapeArrayChildren
		} else if v.Text != "" {
			v.ShapeFlag |= vdom.ShapeTextChildren
		}
	case vdom.KindComponent:
		v.ShapeFlag = vdom.ShapeComponent
	case vdom.KindFragment:
		v.ShapeFlag = vdom.ShapeArrayChildren
	}
}

func (r *Renderer) processText(n1, n2 *vdom.VNode, container, anchor any) {
	if n1 == nil {
		n2.El = r.host.CreateText(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		r.observer.Mounted(n2.Kind)
		return
	}
	n2.El = n1.El
	if n2.Text != n1.Text {
		r.host.SetText(n2.El, n2.Text)
	}
}

// processComment mounts a comment. Comment content is never patched.
func (r *Renderer) processComment(n1, n2 *vdom.VNode, container, anchor any) {
	if n1 == nil {
		n2.El = r.host.CreateComment(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		r.observer.Mounted(n2.Kind)
		return
	}
	n2.El = n1.El
}

func (r *Renderer) mountStatic(n2 *vdom.VNode, container, anchor any) {
	if si, ok := r.host.(StaticInserter); ok {
		n2.El, n2.Anchor = si.InsertStaticContent(n2.Text, container, anchor)
	} else {
		r.warn("host cannot insert static content, mounting it as text")
		n2.El = r.host.CreateText(n2.Text)
		n2.Anchor = n2.El
		r.host.Insert(n2.El, container, anchor)
	}
	r.observer.Mounted(n2.Kind)
}

// patchStatic re-inserts static content whose markup changed. Only used in
// dev mode; in production static content is immutable.
func (r *Renderer) patchStatic(n1, n2 *vdom.VNode, container any) {
	if n2.Text == n1.Text {
		n2.El, n2.Anchor = n1.El, n1.Anchor
		return
	}
	anchor := r.host.NextSibling(n1.Anchor)
	r.removeStatic(n1)
	r.mountStatic(n2, container, anchor)
}

func (r *Renderer) moveStatic(v *vdom.VNode, container, nextSibling any) {
	el := v.El
	for el != nil && el != v.Anchor {
		next := r.host.NextSibling(el)
		r.host.Insert(el, container, nextSibling)
		el = next
	}
	r.host.Insert(v.Anchor, container, nextSibling)
}

func (r *Renderer) removeStatic(v *vdom.VNode) {
	el := v.El
	for el != nil && el != v.Anchor {
		next := r.host.NextSibling(el)
		r.host.Remove(el)
		el = next
	}
	r.host.Remove(v.Anchor)
}

func (r *Renderer) processFragment(n1, n2 *vdom.VNode, container, anchor any, parent *instance, optimized bool) {
	if n1 != nil {
		n2.El, n2.Anchor = n1.El, n1.Anchor
	} else {
		n2.El, n2.Anchor = r.host.CreateText(""), r.host.CreateText("")
	}
	start, end := n2.El, n2.Anchor

	flag, dynamic := n2.PatchFlag, n2.DynamicChildren
	if r.dev && flag.Has(vdom.PatchDevRootFragment) {
		// Root fragments with comments are diffed fully.
		flag, optimized, dynamic = 0, false, nil
	}

	if n1 == nil {
		r.host.Insert(start, container, anchor)
		r.host.Insert(end, container, anchor)
		r.mountChildren(n2.Children, container, end, parent, optimized, 0)
		r.observer.Mounted(n2.Kind)
		return
	}

	if flag.Has(vdom.PatchStableFragment) && dynamic != nil && r.blockCompatible(n1, n2) {
		// Order never changes; patch the dynamic nodes only.
		r.patchBlockChildren(n1.DynamicChildren, dynamic, container, parent)
		r.traverseStaticChildren(n1, n2, false)
		return
	}
	r.patchChildren(n1, n2, container, end, parent, optimized)
}

// blockCompatible reports whether n1 and n2 collected the same number of
// dynamic children. Trees built by hand can violate this; they are then
// diffed fully.
func (r *Renderer) blockCompatible(n1, n2 *vdom.VNode) bool {
	if n1.DynamicChildren == nil || len(n1.DynamicChildren) != len(n2.DynamicChildren) {
		r.warn("block shape changed between renders, falling back to a full diff",
			"old", len(n1.DynamicChildren), "new", len(n2.DynamicChildren))
		return false
	}
	return true
}

func (r *Renderer) move(v *vdom.VNode, container, anchor any, moveType MoveType) {
	switch v.Kind {
	case vdom.KindComponent:
		r.move(instanceOf(v).subTree, container, anchor, moveType)
		return
	case vdom.KindFragment:
		r.host.Insert(v.El, container, anchor)
		for _, c := range v.Children {
			r.move(c, container, anchor, moveType)
		}
		r.host.Insert(v.Anchor, container, anchor)
		return
	case vdom.KindStatic:
		r.moveStatic(v, container, anchor)
		return
	}

	el, t := v.El, v.Transition
	if moveType == MoveReorder || v.Kind != vdom.KindElement || t == nil {
		r.host.Insert(el, container, anchor)
		return
	}
	if moveType == MoveEnter {
		if t.BeforeEnter != nil {
			t.BeforeEnter(el)
		}
		r.host.Insert(el, container, anchor)
		if t.Enter != nil {
			r.queuePost("transition enter", func() { t.Enter(el) })
		}
		return
	}
	remove := func() { r.host.Insert(el, container, anchor) }
	performLeave := func() {
		done := func() {
			remove()
			if t.AfterLeave != nil {
				t.AfterLeave()
			}
		}
		if t.Leave != nil {
			t.Leave(el, done)
		} else {
			done()
		}
	}
	if t.DelayLeave != nil {
		t.DelayLeave(el, remove, performLeave)
	} else {
		performLeave()
	}
}

func (r *Renderer) unmount(v *vdom.VNode, parent *instance, doRemove, optimized bool) {
	if v.Kind == vdom.KindComponent {
		r.unmountComponent(instanceOf(v), doRemove)
		r.observer.Unmounted(v.Kind)
		return
	}

	switch {
	case v.DynamicChildren != nil &&
		(v.Kind != vdom.KindFragment || v.PatchFlag.Has(vdom.PatchStableFragment)):
		// Static children hold no components; only dynamic ones need
		// unmount hooks. Removing the root removes the rest.
		r.unmountChildren(v.DynamicChildren, parent, false, true, 0)
	case (v.Kind == vdom.KindFragment && v.PatchFlag&(vdom.PatchKeyedFragment|vdom.PatchUnkeyedFragment) != 0) ||
		(!optimized && v.ShapeFlag.Has(vdom.ShapeArrayChildren)):
		r.unmountChildren(v.Children, parent, false, false, 0)
	}

	if doRemove {
		r.remove(v)
	}
	r.observer.Unmounted(v.Kind)
}

func (r *Renderer) unmountChildren(children []*vdom.VNode, parent *instance, doRemove, optimized bool, start int) {
	for i := start; i < len(children); i++ {
		r.unmount(children[i], parent, doRemove, optimized)
	}
}

func (r *Renderer) remove(v *vdom.VNode) {
	switch v.Kind {
	case vdom.KindFragment:
		if r.dev && v.PatchFlag.Has(vdom.PatchDevRootFragment) && v.Transition != nil && !v.Transition.Persisted {
			for _, c := range v.Children {
				if c.Kind == vdom.KindComment {
					r.host.Remove(c.El)
				} else {
					r.remove(c)
				}
			}
			return
		}
		r.removeFragment(v.El, v.Anchor)
		return
	case vdom.KindStatic:
		r.removeStatic(v)
		return
	}

	el, t := v.El, v.Transition
	performRemove := func() {
		r.host.Remove(el)
		if t != nil && !t.Persisted && t.AfterLeave != nil {
			t.AfterLeave()
		}
	}
	if v.Kind != vdom.KindElement || t == nil || t.Persisted {
		performRemove()
		return
	}
	performLeave := func() {
		if t.Leave != nil {
			t.Leave(el, performRemove)
		} else {
			performRemove()
		}
	}
	if t.DelayLeave != nil {
		t.DelayLeave(el, performRemove, performLeave)
	} else {
		performLeave()
	}
}

func (r *Renderer) removeFragment(cur, end any) {
	for cur != nil && cur != end {
		next := r.host.NextSibling(cur)
		r.host.Remove(cur)
		cur = next
	}
	r.host.Remove(end)
}

// nextHostNode returns the host node after v's last host node.
func (r *Renderer) nextHostNode(v *vdom.VNode) any {
	if v.Kind == vdom.KindComponent {
		return r.nextHostNode(instanceOf(v).subTree)
	}
	if v.Anchor != nil {
		return r.host.NextSibling(v.Anchor)
	}
	return r.host.NextSibling(v.El)
}

func (r *Renderer) queuePost(name string, fn func()) {
	r.sched.QueuePostFlushCb(scheduler.NewJob(fn, scheduler.Named(name)))
}

// sameProp compares prop values by identity. Functions always differ:
// handlers are closures rebuilt on every render.
func sameProp(a, b any) bool {
	if a != nil && reflect.TypeOf(a).Kind() == reflect.Func {
		return false
	}
	return reactive.SameValueZero(a, b)
}

// sortedKeys returns the keys of p in lexical order so host operations are
// deterministic.
func sortedKeys(p vdom.Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func mapPointer(m vdom.Props) uintptr {
	return reflect.ValueOf(m).Pointer()
}
