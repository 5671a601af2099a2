// Package block provides a registry of server-rendered block types.
//
// Block types are registered from JSON metadata together with a render
// callback. Registration normally happens from hooks queued with OnInit and
// run once by Init when the host starts.
package block

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Attributes are the block attributes supplied by the caller.
type Attributes map[string]string

// Get returns the attribute value or "" when unset.
func (a Attributes) Get(key string) string {
	return a[key]
}

// RenderFunc renders a block to an HTML fragment.
type RenderFunc func(ctx context.Context, attrs Attributes) (string, error)

// AttributeSpec describes a block attribute declared in metadata.
type AttributeSpec struct {
	Type    string `json:"type"`
	Default string `json:"default"`
}

// Metadata is the static description of a block type.
type Metadata struct {
	APIVersion  int                      `json:"apiVersion"`
	Name        string                   `json:"name"`
	Title       string                   `json:"title"`
	Category    string                   `json:"category"`
	Description string                   `json:"description"`
	TextDomain  string                   `json:"textdomain"`
	Attributes  map[string]AttributeSpec `json:"attributes"`
}

// ParseMetadata decodes block metadata JSON.
func ParseMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse block metadata: %w", err)
	}
	if m.Name == "" {
		return m, fmt.Errorf("block metadata is missing a name")
	}
	return m, nil
}

// Type is a registered block type.
type Type struct {
	Metadata
	Render RenderFunc
}

// withDefaults returns attrs with metadata defaults filled in for unset keys.
func (t *Type) withDefaults(attrs Attributes) Attributes {
	out := make(Attributes, len(attrs)+len(t.Attributes))
	for name, spec := range t.Attributes {
		out[name] = spec.Default
	}
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// UnknownBlockError is returned when rendering a block type that is not registered.
type UnknownBlockError struct {
	Name      string
	Available []string
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("unknown block type %q\nAvailable blocks: %v", e.Name, e.Available)
}

// Registry holds block types by name.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type

	initOnce sync.Once
	initErr  error
	hooks    []func(*Registry) error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds a block type. Names must be unique and non-empty.
func (r *Registry) Register(t Type) error {
	if t.Name == "" {
		return fmt.Errorf("block type name is required")
	}
	if t.Render == nil {
		return fmt.Errorf("block type %s has no render callback", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.Name]; exists {
		return fmt.Errorf("block type %s is already registered", t.Name)
	}
	r.types[t.Name] = &t
	return nil
}

// RegisterFromMetadata parses metadata JSON and registers it with render.
func (r *Registry) RegisterFromMetadata(data []byte, render RenderFunc) error {
	meta, err := ParseMetadata(data)
	if err != nil {
		return err
	}
	return r.Register(Type{Metadata: meta, Render: render})
}

// Get retrieves a block type by name.
func (r *Registry) Get(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns all registered block names (sorted).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render renders the named block with attrs, applying attribute defaults.
func (r *Registry) Render(ctx context.Context, name string, attrs Attributes) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", &UnknownBlockError{Name: name, Available: r.Names()}
	}
	return t.Render(ctx, t.withDefaults(attrs))
}

// OnInit queues a hook to run when Init is called.
func (r *Registry) OnInit(hook func(*Registry) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Init runs the queued hooks in order. Only the first call runs them;
// later calls return the first call's result.
func (r *Registry) Init() error {
	r.initOnce.Do(func() {
		r.mu.RLock()
		hooks := append([]func(*Registry) error(nil), r.hooks...)
		r.mu.RUnlock()

		for _, hook := range hooks {
			if err := hook(r); err != nil {
				r.initErr = fmt.Errorf("block init hook failed: %w", err)
				return
			}
		}
	})
	return r.initErr
}
