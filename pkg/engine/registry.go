// pkg/engine/registry.go
package engine

import (
	"github.com/opd-ai/go-spacecombat/pkg/entity"
)

// Registry owns every entity of one kind. Iteration follows insertion
// order; removal is deferred until Compact so passes never mutate the
// collection they are walking. Handles carry a generation and stop
// resolving once their slot is freed, even after the slot is reused.
type Registry[T any] struct {
	kind    entity.Kind
	entries []registryEntry[T]
	slots   []registrySlot
	free    []uint32
	live    int
}

type registryEntry[T any] struct {
	handle  entity.Handle
	value   *T
	removed bool
}

type registrySlot struct {
	generation uint32
	dense      int // index into entries, -1 when free
}

// NewRegistry creates an empty registry for kind
func NewRegistry[T any](kind entity.Kind) *Registry[T] {
	return &Registry[T]{kind: kind}
}

// Add stores v and returns its handle
func (r *Registry[T]) Add(v *T) entity.Handle {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.slots))
		r.slots = append(r.slots, registrySlot{generation: 1})
	}

	slot := &r.slots[index]
	slot.dense = len(r.entries)
	h := entity.Handle{Kind: r.kind, Index: index, Generation: slot.generation}
	r.entries = append(r.entries, registryEntry[T]{handle: h, value: v})
	r.live++
	return h
}

func (r *Registry[T]) lookup(h entity.Handle) (*registryEntry[T], bool) {
	if h.Kind != r.kind || h.IsZero() || int(h.Index) >= len(r.slots) {
		return nil, false
	}
	slot := r.slots[h.Index]
	if slot.generation != h.Generation || slot.dense < 0 {
		return nil, false
	}
	return &r.entries[slot.dense], true
}

// Get resolves h. Entities removed this tick no longer resolve.
func (r *Registry[T]) Get(h entity.Handle) (*T, bool) {
	e, ok := r.lookup(h)
	if !ok || e.removed {
		return nil, false
	}
	return e.value, true
}

// Remove marks h for removal at the next Compact
func (r *Registry[T]) Remove(h entity.Handle) bool {
	e, ok := r.lookup(h)
	if !ok || e.removed {
		return false
	}
	e.removed = true
	r.live--
	return true
}

// Len returns the number of entities not marked for removal
func (r *Registry[T]) Len() int {
	return r.live
}

// Each calls fn for every entity not marked for removal, in insertion
// order, until fn returns false
func (r *Registry[T]) Each(fn func(h entity.Handle, v *T) bool) {
	for i := range r.entries {
		e := &r.entries[i]
		if e.removed {
			continue
		}
		if !fn(e.handle, e.value) {
			return
		}
	}
}

// Values returns the live entities in insertion order
func (r *Registry[T]) Values() []*T {
	out := make([]*T, 0, r.live)
	for _, e := range r.entries {
		if !e.removed {
			out = append(out, e.value)
		}
	}
	return out
}

// Compact drops removed entries, frees their slots and returns how many
// were dropped
func (r *Registry[T]) Compact() int {
	kept := r.entries[:0]
	dropped := 0
	for _, e := range r.entries {
		slot := &r.slots[e.handle.Index]
		if e.removed {
			slot.generation++
			if slot.generation == 0 {
				slot.generation = 1
			}
			slot.dense = -1
			r.free = append(r.free, e.handle.Index)
			dropped++
			continue
		}
		slot.dense = len(kept)
		kept = append(kept, e)
	}
	clear(r.entries[len(kept):])
	r.entries = kept
	return dropped
}
