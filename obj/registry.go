package obj

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/physics"
)

// Registry holds the props the player can interact with.
type Registry struct {
	items    []Interactable
	touching map[Interactable]bool
}

func NewRegistry() *Registry {
	return &Registry{touching: map[Interactable]bool{}}
}

func (r *Registry) Push(item Interactable) {
	if item == nil {
		return
	}
	r.items = append(r.items, item)
}

// All returns the registered props in registration order.
func (r *Registry) All() []Interactable {
	if r == nil {
		return nil
	}
	return r.items
}

// Overlapping returns the props whose buildable shape overlaps shape.
func (r *Registry) Overlapping(shape *cp.Shape) []Interactable {
	if r == nil || shape == nil {
		return nil
	}
	var out []Interactable
	for _, item := range r.items {
		if physics.Overlaps(shape, item.BuildableShape()) {
			out = append(out, item)
		}
	}
	return out
}

// Touch updates overlap state for shape and fires PlayerCollideCallback on
// props it started overlapping since the previous call. It returns every
// prop currently overlapped.
func (r *Registry) Touch(shape *cp.Shape) []Interactable {
	if r == nil {
		return nil
	}
	if r.touching == nil {
		r.touching = map[Interactable]bool{}
	}
	current := r.Overlapping(shape)
	next := make(map[Interactable]bool, len(current))
	for _, item := range current {
		next[item] = true
		if !r.touching[item] {
			item.PlayerCollideCallback()
		}
	}
	r.touching = next
	return current
}
