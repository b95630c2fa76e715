package pipeline

import (
	"fmt"
)

// Registry holds the registered stages in registration order. It is
// assembled once at startup and read by the runner.
type Registry struct {
	steps map[string]Step
	order []string
}

// NewRegistry creates an empty stage registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// Register adds a stage to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil stage")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("stage ID cannot be empty")
	}
	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("stage with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a stage by ID
func (r *Registry) Get(id string) (Step, error) {
	step, exists := r.steps[id]
	if !exists {
		return nil, fmt.Errorf("stage with ID %s not found", id)
	}
	return step, nil
}

// Has checks if a stage is registered
func (r *Registry) Has(id string) bool {
	_, exists := r.steps[id]
	return exists
}

// List returns all registered stages in registration order
func (r *Registry) List() []Step {
	steps := make([]Step, 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// Count returns the number of registered stages
func (r *Registry) Count() int {
	return len(r.steps)
}
