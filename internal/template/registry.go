package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cbrunet/conforma/internal/model"
)

// ErrNotFound is returned when no template is registered for a category
type ErrNotFound struct {
	Category string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no template registered for category %q", e.Category)
}

// Registry holds the checklist templates, keyed by category.
// Built once at startup, read-only afterwards. Lookups are case-insensitive.
type Registry struct {
	templates map[string]*model.DocumentTemplate
}

// NewRegistry creates a registry pre-loaded with the builtin templates
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*model.DocumentTemplate)}
	for _, t := range builtinTemplates() {
		r.Register(t)
	}
	return r
}

// Register adds a template under its category key. Adding a category is
// additive configuration; there is no dynamic schema inference.
func (r *Registry) Register(t *model.DocumentTemplate) {
	r.templates[strings.ToLower(t.Category)] = t
}

// Get looks up a template by category key, case-insensitively
func (r *Registry) Get(category string) (*model.DocumentTemplate, error) {
	t, ok := r.templates[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil, &ErrNotFound{Category: category}
	}
	return t, nil
}

// List returns all registered templates ordered by category key
func (r *Registry) List() []*model.DocumentTemplate {
	keys := make([]string, 0, len(r.templates))
	for k := range r.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*model.DocumentTemplate, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.templates[k])
	}
	return out
}

// Categories returns the sorted category keys
func (r *Registry) Categories() []string {
	keys := make([]string, 0, len(r.templates))
	for k := range r.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
