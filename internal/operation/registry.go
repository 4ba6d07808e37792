// Package operation provides the operation-kind base implementations and
// the process-wide type registry operations install themselves into.
package operation

import (
	"fmt"
	"sync"

	"github.com/smilemakc/gegraph/internal/domain"
)

// Factory constructs a fresh Operation instance (and, via Attach, its
// pads) for one node.
type Factory func() domain.Operation

// PropertyDescriptor is a single entry in an operation's property schema
// plus
// a typed value bag in the context").
type PropertyDescriptor struct {
	Name    string
	Type    string
	Default any
}

// Descriptor is the metadata a plug-in registers alongside its factory:
// type name, variant, property schema, and capability flags.
type Descriptor struct {
	Name        string
	Category    string
	Description string
	Variant     domain.Variant
	Properties  []PropertyDescriptor
	OpenCLSupport bool
	NoCache       bool
	New         Factory
}

// Registry is the Name -> operation-class table (spec §3 "Operation
// registry"), grounded on the teacher's byID/byName Registry.
type Registry struct {
	mu  sync.RWMutex
	byName map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// defaultRegistry is the process-wide table (spec §9). It is built once,
// during package initialization, before any caller can reach Default.
var defaultRegistry = NewRegistry()

func Default() *Registry { return defaultRegistry }

func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" || d.New == nil {
		return domain.NewDomainError(domain.ErrCodeStructural, "operation descriptor requires a name and factory", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.Name]; exists {
		return domain.NewDomainError(domain.ErrCodeStructural, fmt.Sprintf("operation type already registered: %s", d.Name), nil)
	}
	r.byName[d.Name] = d
	return nil
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// New constructs a fresh operation instance of the named type.
func (r *Registry) New(name string) (domain.Operation, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, domain.NewDomainError(domain.ErrCodeStructural, "unknown operation type: "+name, nil)
	}
	return d.New(), nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}
