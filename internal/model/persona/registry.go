package persona

// Registry exposes persona lookup for the runtime and HTTP handlers.
// Populated once at startup, never mutated afterwards.
type Registry struct {
	items []Persona
	byKey map[string]*Persona
}

// NewRegistry returns a Registry preloaded with the supplied personas.
func NewRegistry(items []Persona) *Registry {
	r := &Registry{
		items: append([]Persona(nil), items...),
		byKey: make(map[string]*Persona, len(items)),
	}
	for i := range r.items {
		r.byKey[r.items[i].Name] = &r.items[i]
	}
	return r
}

// List returns the registered personas in seed order.
func (r *Registry) List() []Persona {
	return append([]Persona(nil), r.items...)
}

// Find looks up a persona by name.
func (r *Registry) Find(name string) (*Persona, bool) {
	p, ok := r.byKey[name]
	return p, ok
}
