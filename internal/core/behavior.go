package core

import "slices"

// Behavior binds a when rehearsal to the effect a matching call produces.
type Behavior struct {
	Rehearsal *EventEntry
	Effect    Effect

	// ConsumeOnUse removes the behavior from the store the first time it fires.
	ConsumeOnUse bool
	// Times bounds how often the behavior may fire; zero means unbounded.
	// The bound is enforced by the caller of Resolve, not by the store.
	Times int
}

// BehaviorStore is the append-ordered list of stub behaviors.
// Resolution walks it newest first, so later stubbings shadow earlier ones.
type BehaviorStore struct {
	behaviors []*Behavior
}

// NewBehaviorStore creates an empty store.
func NewBehaviorStore() *BehaviorStore {
	return &BehaviorStore{}
}

// Add appends a behavior; it takes precedence over every behavior added before it.
func (s *BehaviorStore) Add(behavior *Behavior) {
	s.behaviors = append(s.behaviors, behavior)
}

// All returns the behaviors, oldest first.
func (s *BehaviorStore) All() []*Behavior {
	out := make([]*Behavior, len(s.behaviors))
	copy(out, s.behaviors)

	return out
}

// Clear drops every behavior.
func (s *BehaviorStore) Clear() {
	s.behaviors = nil
}

// Len returns the number of stored behaviors.
func (s *BehaviorStore) Len() int {
	return len(s.behaviors)
}

// Resolve finds the newest behavior whose rehearsal matches the call.
// usable, if non-nil, lets the caller skip exhausted behaviors without removing them.
// A consume-on-use behavior is removed before it is returned.
// The returned resolution can undo that removal; it is nil when nothing matched.
func (s *BehaviorStore) Resolve(call *EventEntry, usable func(*Behavior) bool) (*Behavior, *resolution) {
	for i := len(s.behaviors) - 1; i >= 0; i-- {
		behavior := s.behaviors[i]

		if !EntryMatches(call, behavior.Rehearsal) {
			continue
		}

		if usable != nil && !usable(behavior) {
			continue
		}

		res := &resolution{behavior: behavior, index: i}

		if behavior.ConsumeOnUse {
			s.behaviors = slices.Delete(s.behaviors, i, i+1)
			res.removed = true
		}

		return behavior, res
	}

	return nil, nil
}

// restore puts back a behavior that Resolve removed.
func (s *BehaviorStore) restore(res *resolution) {
	if res == nil || !res.removed {
		return
	}

	index := min(res.index, len(s.behaviors))
	s.behaviors = slices.Insert(s.behaviors, index, res.behavior)
	res.removed = false
}

// Delegate computes a call's result from its arguments.
type Delegate struct {
	Fn DelegateFunc
}

func (Delegate) isEffect() {}

// DelegateFunc is the signature of a ThenCall callback.
type DelegateFunc func(args []any, kwargs map[string]any) (any, error)

// Effect is what a matched behavior does: Return, Raise, Delegate or EnterContext.
type Effect interface {
	isEffect()
}

// EnterContext makes the call produce a scoped resource whose Enter yields Value.
type EnterContext struct {
	Value any
}

func (EnterContext) isEffect() {}

// Raise makes the call fail with Err.
type Raise struct {
	Err error
}

func (Raise) isEffect() {}

// Return makes the call produce Value.
type Return struct {
	Value any
}

func (Return) isEffect() {}

// resolution remembers what resolving a call did to the store, so that a call
// later reclassified as a rehearsal can give back what it spent.
type resolution struct {
	behavior *Behavior
	index    int
	removed  bool
}
