package renderer

import (
	"fmt"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Scoped is implemented by components whose elements carry a scope id
// attribute for scoped styling.
type Scoped interface {
	ScopeID() string
}

// instance is a mounted component. It owns a detached effect scope, the
// render effect and the scheduler job that re-runs it.
type instance struct {
	r      *Renderer
	uid    int
	name   string
	parent *instance

	vnode *vdom.VNode
	// next is the parent-supplied vnode waiting to be applied by the next
	// render.
	next *vdom.VNode

	props   *reactive.ObjectProxy
	slot    []*vdom.VNode
	render  vdom.RenderFunc
	subTree *vdom.VNode
	scopeID string

	scope  *reactive.EffectScope
	effect *reactive.Effect
	job    *scheduler.Job

	isMounted   bool
	isUnmounted bool

	beforeMount, mounted     []func()
	beforeUpdate, updated    []func()
	beforeUnmount, unmounted []func()
}

var (
	_ vdom.Context           = (*instance)(nil)
	_ vdom.ComponentInstance = (*instance)(nil)
)

func instanceOf(v *vdom.VNode) *instance {
	inst, _ := v.Instance.(*instance)
	if inst == nil {
		panic(fmt.Sprintf("renderer: component vnode %v is not mounted", componentName(v.Component)))
	}
	return inst
}

func (i *instance) UID() int                     { return i.uid }
func (i *instance) SubTree() *vdom.VNode         { return i.subTree }
func (i *instance) Slot() []*vdom.VNode          { return i.slot }
func (i *instance) Scope() *reactive.EffectScope { return i.scope }

func (i *instance) OnBeforeMount(fn func())   { i.beforeMount = append(i.beforeMount, fn) }
func (i *instance) OnMounted(fn func())       { i.mounted = append(i.mounted, fn) }
func (i *instance) OnBeforeUpdate(fn func())  { i.beforeUpdate = append(i.beforeUpdate, fn) }
func (i *instance) OnUpdated(fn func())       { i.updated = append(i.updated, fn) }
func (i *instance) OnBeforeUnmount(fn func()) { i.beforeUnmount = append(i.beforeUnmount, fn) }
func (i *instance) OnUnmounted(fn func())     { i.unmounted = append(i.unmounted, fn) }

// toggleRecurse controls whether the render effect may re-queue itself.
// It is off while props are applied so prop writes do not schedule a second
// render of the component that is already rendering.
func (i *instance) toggleRecurse(allowed bool) {
	i.effect.AllowRecurse = allowed
	i.job.AllowRecurse = allowed
}

// update re-renders the component if any dependency changed.
func (i *instance) update() {
	if i.effect.Dirty() {
		i.effect.Run()
	}
}

func componentName(c vdom.Component) string {
	if f, ok := c.(*vdom.FuncComponent); ok && f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("%T", c)
}

func (r *Renderer) mountComponent(v *vdom.VNode, container, anchor any, parent *instance) {
	r.uid++
	inst := &instance{
		r:      r,
		uid:    r.uid,
		name:   componentName(v.Component),
		parent: parent,
		vnode:  v,
		slot:   v.Children,
		scope:  reactive.NewEffectScope(true),
	}
	if s, ok := v.Component.(Scoped); ok {
		inst.scopeID = s.ScopeID()
	}
	v.Instance = inst

	raw := reactive.NewObject()
	for _, k := range sortedKeys(v.Props) {
		raw.Set(k, v.Props[k])
	}
	inst.props = reactive.ShallowReactive(raw).(*reactive.ObjectProxy)

	r.setupComponent(inst)
	r.setupRenderEffect(inst, container, anchor)
	r.observer.Mounted(v.Kind)
}

// setupComponent runs Setup inside the instance scope, untracked so the
// caller's render effect does not subscribe to setup reads.
func (r *Renderer) setupComponent(inst *instance) {
	inst.scope.Run(func() {
		reactive.Untracked(func() {
			render, ok := scheduler.CallValue(r.sched, func() vdom.RenderFunc {
				return inst.vnode.Component.Setup(inst.props, inst)
			}, scheduler.CodeSetup, inst.name)
			if !ok || render == nil {
				if ok {
					r.warn("component setup returned no render function", "component", inst.name)
				}
				render = func() *vdom.VNode { return vdom.Comment("") }
			}
			inst.render = render
		})
	})
}

// renderRoot calls the render function. A panic or a nil result renders an
// empty comment so the component keeps a host position.
func (r *Renderer) renderRoot(inst *instance) *vdom.VNode {
	tree, ok := scheduler.CallValue(r.sched, func() *vdom.VNode { return inst.render() }, scheduler.CodeRender, inst.name)
	if !ok || tree == nil {
		return vdom.Comment("")
	}
	return vdom.CloneIfMounted(tree)
}

func (r *Renderer) setupRenderEffect(inst *instance, container, anchor any) {
	componentUpdate := func() any {
		if !inst.isMounted {
			r.callHooks(inst, inst.beforeMount)
			inst.subTree = r.renderRoot(inst)
			r.patch(nil, inst.subTree, container, anchor, inst, false)
			inst.vnode.El = inst.subTree.El
			inst.isMounted = true
			r.queueHooks(inst, inst.mounted, "mounted")
			return nil
		}

		next := inst.next
		inst.toggleRecurse(false)
		if next != nil {
			next.El = inst.vnode.El
			r.updateComponentPreRender(inst, next)
		} else {
			next = inst.vnode
		}
		r.callHooks(inst, inst.beforeUpdate)
		inst.toggleRecurse(true)

		nextTree := r.renderRoot(inst)
		prevTree := inst.subTree
		inst.subTree = nextTree
		r.patch(prevTree, nextTree, r.host.ParentNode(r.firstHostNode(prevTree)), r.nextHostNode(prevTree), inst, false)
		next.El = nextTree.El
		r.queueHooks(inst, inst.updated, "updated")
		return nil
	}

	inst.job = scheduler.NewJob(inst.update, scheduler.WithID(inst.uid), scheduler.Named(inst.name+" render"))
	inst.effect = reactive.NewEffect(componentUpdate, nil, func() { r.sched.QueueJob(inst.job) }, inst.scope)
	inst.toggleRecurse(true)
	inst.update()
}

// updateComponentPreRender applies the vnode a parent render produced:
// props and slot are replaced, then pre watchers of this instance run so
// the render sees their writes.
func (r *Renderer) updateComponentPreRender(inst *instance, next *vdom.VNode) {
	next.Instance = inst
	inst.vnode = next
	inst.next = nil
	r.updateProps(inst, next.Props)
	inst.slot = next.Children

	reactive.PauseTracking()
	defer reactive.ResetTracking()
	r.sched.FlushPreFlushCbsFor(inst.uid)
}

func (r *Renderer) updateProps(inst *instance, props vdom.Props) {
	raw := inst.props.Raw()
	for _, k := range raw.Keys() {
		if _, ok := props[k]; !ok {
			inst.props.Delete(k)
		}
	}
	for _, k := range sortedKeys(props) {
		if old, ok := raw.Lookup(k); !ok || !sameProp(old, props[k]) {
			inst.props.Set(k, props[k])
		}
	}
}

func (r *Renderer) updateComponent(n1, n2 *vdom.VNode, optimized bool) {
	inst := instanceOf(n1)
	n2.Instance = inst
	if !shouldUpdateComponent(n1, n2, optimized) {
		n2.El = n1.El
		inst.vnode = n2
		return
	}
	inst.next = n2
	// The job may already be queued by a prop the child reads; this render
	// covers it.
	r.sched.InvalidateJob(inst.job)
	inst.effect.SetDirty(true)
	inst.update()
}

// shouldUpdateComponent decides from props, slot and patch flags whether a
// child needs to render again after its parent did.
func shouldUpdateComponent(prev, next *vdom.VNode, optimized bool) bool {
	if next.Transition != nil {
		return true
	}
	if optimized && next.PatchFlag >= 0 {
		switch {
		case next.PatchFlag.Has(vdom.PatchDynamicSlots):
			return true
		case next.PatchFlag.Has(vdom.PatchFullProps):
			if prev.Props == nil {
				return next.Props != nil
			}
			return hasPropsChanged(prev.Props, next.Props)
		case next.PatchFlag.Has(vdom.PatchProps):
			for _, key := range next.DynamicProps {
				if !sameProp(prev.Props[key], next.Props[key]) {
					return true
				}
			}
		}
		return false
	}
	if len(prev.Children) > 0 || len(next.Children) > 0 {
		return true
	}
	if sameMap(prev.Props, next.Props) {
		return false
	}
	if prev.Props == nil {
		return next.Props != nil
	}
	if next.Props == nil {
		return true
	}
	return hasPropsChanged(prev.Props, next.Props)
}

func hasPropsChanged(prev, next vdom.Props) bool {
	if len(prev) != len(next) {
		return true
	}
	for k, v := range next {
		if !sameProp(prev[k], v) {
			return true
		}
	}
	return false
}

func (r *Renderer) unmountComponent(inst *instance, doRemove bool) {
	r.callHooks(inst, inst.beforeUnmount)
	// Stops the render effect with every watcher created in setup.
	inst.scope.Stop()
	inst.job.Deactivate()
	r.sched.InvalidateJob(inst.job)
	r.unmount(inst.subTree, inst, doRemove, false)
	r.queueHooks(inst, inst.unmounted, "unmounted")
	r.queuePost(inst.name+" unmounted flag", func() { inst.isUnmounted = true })
}

func (r *Renderer) callHooks(inst *instance, hooks []func()) {
	for _, h := range hooks {
		r.sched.CallWithErrorHandling(h, scheduler.CodeLifecycleHook, inst.name)
	}
}

func (r *Renderer) queueHooks(inst *instance, hooks []func(), name string) {
	for _, h := range hooks {
		r.queuePost(inst.name+" "+name, func() {
			r.sched.CallWithErrorHandling(h, scheduler.CodeLifecycleHook, inst.name)
		})
	}
}

// firstHostNode returns the first host node of v.
func (r *Renderer) firstHostNode(v *vdom.VNode) any {
	if v.Kind == vdom.KindComponent {
		return r.firstHostNode(instanceOf(v).subTree)
	}
	return v.El
}
