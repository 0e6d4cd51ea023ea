package operations

import (
	"fmt"
	"sync"
)

// Registry keeps steps in registration order, which is execution order
type Registry[S any] struct {
	mu    sync.RWMutex
	steps map[string]Step[S]
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		steps: make(map[string]Step[S]),
	}
}

// Register appends a Step to the registry
func (r *Registry[S]) Register(step Step[S]) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// List returns the steps in registration order
func (r *Registry[S]) List() []Step[S] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step[S], 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// Count returns the number of registered steps
func (r *Registry[S]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
