package backend

import (
	"fmt"
	"sort"

	"github.com/lhaig/sol2clarity/internal/ir"
)

// Backend is the interface that all code generation backends implement.
type Backend interface {
	// Name returns the backend name (e.g., "clarity")
	Name() string
	// Extension returns the default output file extension, including the dot.
	Extension() string
	// Generate produces output source code from one lowered contract.
	Generate(c *ir.Contract) string
}

var registry = map[string]Backend{
	"clarity": &ClarityBackend{},
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	if be, ok := registry[name]; ok {
		return be, nil
	}
	return nil, fmt.Errorf("unknown target: %s (available: %v)", name, Names())
}

// Names lists the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
