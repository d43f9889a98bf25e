package reactive

// TrackOp classifies a dependency-collecting read.
type TrackOp uint8

const (
	TrackGet TrackOp = iota + 1
	TrackHas
	TrackIterate
)

// String returns the string representation of the TrackOp.
func (op TrackOp) String() string {
	switch op {
	case TrackGet:
		return "get"
	case TrackHas:
		return "has"
	case TrackIterate:
		return "iterate"
	default:
		return "unknown"
	}
}

// TriggerOp classifies a mutation.
type TriggerOp uint8

const (
	TriggerSet TriggerOp = iota + 1
	TriggerAdd
	TriggerDelete
	TriggerClear
)

// String returns the string representation of the TriggerOp.
func (op TriggerOp) String() string {
	switch op {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	case TriggerClear:
		return "clear"
	default:
		return "unknown"
	}
}

type iterateKey struct{ name string }

// Reserved dependency keys.
var (
	// IterateKey is tracked by anything that enumerates a target.
	IterateKey any = iterateKey{"iterate"}

	// MapKeyIterateKey is tracked by Map key-only enumeration, which is
	// unaffected by value changes of existing keys.
	MapKeyIterateKey any = iterateKey{"map key iterate"}
)

// LengthKey is the dependency key of an array's length.
const LengthKey = "length"

// computedRefresher is implemented by computeds so an effect can force an
// upstream recomputation while resolving a MaybeDirty level.
type computedRefresher interface {
	refresh()
}

// Dep is the subscriber set of one observable slot. Each subscribed effect
// is annotated with the tracking generation at which it last subscribed.
type Dep struct {
	subs  map[*Effect]int
	order []*Effect

	cleanup  func()
	computed computedRefresher
}

func newDep(cleanup func(), computed computedRefresher) *Dep {
	return &Dep{
		subs:     make(map[*Effect]int),
		cleanup:  cleanup,
		computed: computed,
	}
}

// Len returns the number of subscribed effects.
func (d *Dep) Len() int {
	if d == nil {
		return 0
	}
	return len(d.subs)
}

// Has reports whether e is subscribed.
func (d *Dep) Has(e *Effect) bool {
	_, ok := d.subs[e]
	return ok
}

func (d *Dep) get(e *Effect) (int, bool) {
	id, ok := d.subs[e]
	return id, ok
}

func (d *Dep) set(e *Effect, trackID int) {
	if _, ok := d.subs[e]; !ok {
		d.order = append(d.order, e)
	}
	d.subs[e] = trackID
}

func (d *Dep) remove(e *Effect) {
	if _, ok := d.subs[e]; !ok {
		return
	}
	delete(d.subs, e)
	for i, s := range d.order {
		if s == e {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// effects returns the subscribers in subscription order. The slice is a
// copy so callers may mutate the dep while iterating.
func (d *Dep) effects() []*Effect {
	out := make([]*Effect, len(d.order))
	copy(out, d.order)
	return out
}

// depsMap is the per-target key to Dep table. It lives inside the target,
// so it is collected together with it.
type depsMap map[any]*Dep

// DebuggerEvent describes a track or trigger for OnTrack/OnTrigger hooks.
type DebuggerEvent struct {
	Effect   *Effect
	Target   any
	Track    TrackOp
	Trigger  TriggerOp
	Key      any
	NewValue any
	OldValue any
}
