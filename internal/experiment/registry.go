package experiment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/bubblesim/internal/dynamo"
	"github.com/san-kum/bubblesim/internal/integrators"
)

// ErrUnknownMethod is returned for a name the registry does not know.
var ErrUnknownMethod = errors.New("experiment: unknown method")

type Registry struct {
	methods map[string]func() dynamo.Method
	aliases map[string]string
}

// NewRegistry returns a registry holding euler (rk1), heun (rk2) and rk4.
func NewRegistry() *Registry {
	r := &Registry{
		methods: make(map[string]func() dynamo.Method),
		aliases: make(map[string]string),
	}

	r.RegisterMethod("euler", func() dynamo.Method { return integrators.NewEuler() }, "rk1")
	r.RegisterMethod("heun", func() dynamo.Method { return integrators.NewHeun() }, "rk2", "improved_euler")
	r.RegisterMethod("rk4", func() dynamo.Method { return integrators.NewRK4() })

	return r
}

// RegisterMethod adds a constructor under name and any aliases.
func (r *Registry) RegisterMethod(name string, fn func() dynamo.Method, aliases ...string) {
	r.methods[name] = fn
	for _, a := range aliases {
		r.aliases[a] = name
	}
}

// GetMethod resolves a method name or alias, case-insensitively.
func (r *Registry) GetMethod(name string) (dynamo.Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	fn, ok := r.methods[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownMethod, name, strings.Join(r.ListMethods(), ", "))
	}
	return fn(), nil
}

// ListMethods lists canonical method names ordered by order of accuracy.
func (r *Registry) ListMethods() []string {
	type entry struct {
		name  string
		order int
	}
	entries := make([]entry, 0, len(r.methods))
	for name, fn := range r.methods {
		entries = append(entries, entry{name, fn().Order()})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Aliases returns the alternative names registered for a canonical name.
func (r *Registry) Aliases(name string) []string {
	var out []string
	for alias, canonical := range r.aliases {
		if canonical == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
