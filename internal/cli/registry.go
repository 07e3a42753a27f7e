// Package cli provides the building blocks shared by every artagon command:
// a command registry with longest-prefix resolution, a shared execution
// context that wraps external process invocations, and a sequential pipeline
// composer for release flows.
package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicatePath is returned when a command path is registered twice.
var ErrDuplicatePath = errors.New("command path already registered")

// Handler executes a command given the shared context and the argument
// tokens left over after path resolution.
type Handler func(ctx *Context, args []string) error

// Spec describes a registered CLI command. Specs are created once at process
// start and never mutated.
type Spec struct {
	Path    string
	Help    string
	Handler Handler
}

// Registry maps normalized command paths to their specs.
type Registry struct {
	commands map[string]Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Spec)}
}

// normalizePath lowercases a command path and collapses whitespace so that
// "Java  Release" and "java release" resolve to the same key.
func normalizePath(path string) string {
	return strings.ToLower(strings.Join(strings.Fields(path), " "))
}

// Register adds a spec to the registry. It fails with ErrDuplicatePath if the
// normalized path is already taken.
func (r *Registry) Register(spec Spec) error {
	key := normalizePath(spec.Path)
	if key == "" {
		return fmt.Errorf("empty command path")
	}
	if _, exists := r.commands[key]; exists {
		return fmt.Errorf("%q: %w", spec.Path, ErrDuplicatePath)
	}
	r.commands[key] = spec
	return nil
}

// Find resolves the longest registered path matching a prefix of tokens.
// It returns the matched spec together with the unconsumed remainder. When
// no prefix matches, ok is false and the original tokens are returned
// unchanged (case preserved) so the caller can report them.
func (r *Registry) Find(tokens []string) (spec Spec, remainder []string, ok bool) {
	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		lowered[i] = strings.ToLower(tok)
	}
	for i := len(tokens); i > 0; i-- {
		key := strings.Join(lowered[:i], " ")
		if spec, found := r.commands[key]; found {
			return spec, tokens[i:], true
		}
	}
	return Spec{}, tokens, false
}

// Specs returns all registered specs sorted by path, for usage listings.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.commands))
	for _, spec := range r.commands {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	return specs
}
