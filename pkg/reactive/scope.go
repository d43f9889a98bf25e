package reactive

// EffectScope collects effects, child scopes and cleanup callbacks so they
// can be disposed together.
//
// Scopes form a hierarchy: a non-detached scope created while another scope
// is active becomes its child and is stopped with it.
type EffectScope struct {
	active   bool
	detached bool

	// effects created while this scope was active.
	effects []*Effect

	// cleanups registered with OnScopeDispose.
	cleanups []func()

	parent *EffectScope
	scopes []*EffectScope

	// index is the position in parent.scopes, for O(1) removal.
	index int
}

// NewEffectScope creates a scope. Unless detached, it is attached to the
// currently active scope.
func NewEffectScope(detached bool) *EffectScope {
	st := lookup()
	s := &EffectScope{
		active:   true,
		detached: detached,
		parent:   st.activeScope,
		index:    -1,
	}
	if !detached && st.activeScope != nil {
		p := st.activeScope
		p.scopes = append(p.scopes, s)
		s.index = len(p.scopes) - 1
	}
	return s
}

// Active reports whether the scope has not been stopped.
func (s *EffectScope) Active() bool {
	return s.active
}

// Run runs fn with s as the active scope. Running an inactive scope warns
// and does nothing.
func (s *EffectScope) Run(fn func()) {
	if !s.active {
		warn("cannot run an inactive effect scope")
		return
	}
	st := current()
	prev := st.activeScope
	st.activeScope = s
	defer func() {
		st.activeScope = prev
		release(st)
	}()
	fn()
}

// On makes s the active scope until Off.
func (s *EffectScope) On() {
	current().activeScope = s
}

// Off restores the parent as the active scope.
func (s *EffectScope) Off() {
	st := current()
	st.activeScope = s.parent
	release(st)
}

// Stop stops every recorded effect, runs cleanups and stops child scopes.
func (s *EffectScope) Stop() {
	s.stop(false)
}

func (s *EffectScope) stop(fromParent bool) {
	if !s.active {
		return
	}
	for _, e := range s.effects {
		e.Stop()
	}
	for _, fn := range s.cleanups {
		fn()
	}
	for _, child := range s.scopes {
		child.stop(true)
	}
	if !s.detached && s.parent != nil && !fromParent && s.index >= 0 {
		p := s.parent
		last := p.scopes[len(p.scopes)-1]
		p.scopes = p.scopes[:len(p.scopes)-1]
		if last != s {
			p.scopes[s.index] = last
			last.index = s.index
		}
	}
	s.parent = nil
	s.active = false
}

// Effects returns the effects recorded in the scope.
func (s *EffectScope) Effects() []*Effect {
	out := make([]*Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// RemoveEffect detaches e from the scope's bookkeeping.
func (s *EffectScope) RemoveEffect(e *Effect) {
	for i, x := range s.effects {
		if x == e {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// GetCurrentScope returns the active scope, or nil.
func GetCurrentScope() *EffectScope {
	return lookup().activeScope
}

// OnScopeDispose registers fn to run when the active scope stops. Outside a
// scope it warns and does nothing.
func OnScopeDispose(fn func()) {
	s := lookup().activeScope
	if s == nil {
		warn("OnScopeDispose() is called when there is no active effect scope to be associated with")
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

func recordEffectScope(e *Effect, scope *EffectScope) {
	if scope == nil {
		scope = lookup().activeScope
	}
	if scope != nil && scope.active {
		scope.effects = append(scope.effects, e)
	}
}
