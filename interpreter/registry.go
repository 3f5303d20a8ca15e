package interpreter

import "sort"

// HandlerFunc runs one verb. Handlers report user mistakes through the
// returned Result and may move the session.
type HandlerFunc func(args []string, it *Interpreter) Result

// Definition is a registered verb plus its dispatch metadata.
type Definition struct {
	Name    string
	Handler HandlerFunc
	// BypassGate keeps the verb usable even when an allow-list is enforced.
	BypassGate bool
}

type Registry struct {
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds def, replacing any verb of the same name.
func (r *Registry) Register(def Definition) {
	r.defs[def.Name] = def
}

func (r *Registry) Handle(name string, h HandlerFunc) {
	r.Register(Definition{Name: name, Handler: h})
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Verbs returns every registered verb in lexical order.
func (r *Registry) Verbs() []string {
	verbs := make([]string, 0, len(r.defs))
	for name := range r.defs {
		verbs = append(verbs, name)
	}
	sort.Strings(verbs)
	return verbs
}
