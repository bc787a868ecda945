package gpu

import (
	"fmt"

	"github.com/gekko3d/lumen/rt/core"
)

// Registry maps opaque asset ids to backend objects.
type Registry[T any] struct {
	items map[core.AssetID]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[core.AssetID]T)}
}

func (r *Registry[T]) Add(v T) core.AssetID {
	id := core.NewAssetID()
	r.items[id] = v
	return id
}

func (r *Registry[T]) Get(id core.AssetID) (T, bool) {
	v, ok := r.items[id]
	return v, ok
}

// MustGet panics on unknown ids; a stale handle is a programming error.
func (r *Registry[T]) MustGet(id core.AssetID) T {
	v, ok := r.items[id]
	if !ok {
		panic(fmt.Sprintf("gpu: unknown resource %q", id))
	}
	return v
}

func (r *Registry[T]) Remove(id core.AssetID) bool {
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	return true
}

// Each calls fn for every entry in unspecified order. fn must not add or
// remove entries.
func (r *Registry[T]) Each(fn func(id core.AssetID, v T)) {
	for id, v := range r.items {
		fn(id, v)
	}
}

func (r *Registry[T]) Len() int {
	return len(r.items)
}
