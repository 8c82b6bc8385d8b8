// internal/controller/registry.go
package controller

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// -- Collaborator Plumbing --

// Deps carries the collaborators an action may use. The engine owns none
// of them; callers assemble Deps per session and the registry only checks
// presence against each action's declared needs.
type Deps struct {
	Session schemas.BrowserSession
	LLM     schemas.LLMClient
	Files   schemas.FileSystem

	// SensitiveData maps secret keys to their real values. Values are
	// substituted into typed text on the way in and redacted from every
	// outcome on the way out. Control flow never branches on them.
	SensitiveData map[string]string

	// AllowedUploadPaths restricts upload_file to the listed local paths.
	// A nil slice means no restriction.
	AllowedUploadPaths []string
}

// Needs is a bitmask of collaborators an action requires.
type Needs uint8

const (
	NeedSession Needs = 1 << iota
	NeedLLM
	NeedFiles
)

// Has reports whether n includes m.
func (n Needs) Has(m Needs) bool { return n&m != 0 }

// check verifies d satisfies every bit in n.
func (n Needs) check(d Deps) error {
	if n.Has(NeedSession) && d.Session == nil {
		return fmt.Errorf("%w: browser session", ErrMissingCollaborator)
	}
	if n.Has(NeedLLM) && d.LLM == nil {
		return fmt.Errorf("%w: llm client", ErrMissingCollaborator)
	}
	if n.Has(NeedFiles) && d.Files == nil {
		return fmt.Errorf("%w: file system", ErrMissingCollaborator)
	}
	return nil
}

// Invocation is everything a handler receives besides the context.
type Invocation struct {
	Params schemas.ActionParams
	Deps   Deps
	Log    *zap.Logger
}

// Handler executes one action. The returned value must be nil, a string,
// or a *schemas.ActionResult; anything else is a contract violation that
// the boundary propagates instead of recovering.
type Handler func(ctx context.Context, inv Invocation) (any, error)

// -- Descriptor & Registry --

// Descriptor is the immutable registration record for one action.
type Descriptor struct {
	// Name is the action's registry key and its ActionRequest JSON field.
	Name string
	// Description tells the agent what the action does and when to use it.
	Description string
	// Schema is the JSON-schema parameter description surfaced in the
	// action listing handed to the model.
	Schema map[string]any
	// Needs declares which collaborators must be present in Deps.
	Needs Needs
	// Handler runs the action.
	Handler Handler
}

// Registry holds the set of invocable actions. Registration happens at
// construction time; afterwards the registry is effectively read-only
// apart from Exclude, so a single RWMutex covers the rare writes.
type Registry struct {
	log *zap.Logger

	mu    sync.RWMutex
	order []string
	byName map[string]Descriptor
}

// NewRegistry returns an empty registry. Most callers want
// NewDefaultRegistry instead.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		log:    logger.Named("registry"),
		byName: make(map[string]Descriptor),
	}
}

// Register adds a descriptor. Duplicate names are rejected, not replaced.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor requires a name")
	}
	if d.Handler == nil {
		return fmt.Errorf("descriptor %q requires a handler", d.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAction, d.Name)
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	r.log.Debug("Action registered.", zap.String("action", d.Name))
	return nil
}

// mustRegister is used by the built-in action set, whose descriptors are
// compile-time constants; a failure there is a programming error.
func (r *Registry) mustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Exclude removes actions by name, e.g. dropping screenshot when the
// model has no vision. Unknown names are ignored; excluding twice is a
// no-op.
func (r *Registry) Exclude(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, exists := r.byName[name]; !exists {
			continue
		}
		delete(r.byName, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		r.log.Debug("Action excluded.", zap.String("action", name))
	}
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered action names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Listing describes one action for the model-facing action list.
type Listing struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"parameters,omitempty"`
}

// Describe returns the full model-facing action listing in registration
// order.
func (r *Registry) Describe() []Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Listing, 0, len(r.order))
	for _, name := range r.order {
		d := r.byName[name]
		out = append(out, Listing{Name: d.Name, Description: d.Description, Schema: d.Schema})
	}
	return out
}

// Execute validates parameters, checks collaborator needs, and runs the
// handler for name. Unknown names and unmet needs fail with their typed
// sentinel; validation failures carry the action name.
func (r *Registry) Execute(ctx context.Context, name string, params schemas.ActionParams, deps Deps) (any, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	if params == nil {
		return nil, fmt.Errorf("invalid parameters for %q: no parameters supplied", name)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters for %q: %w", name, err)
	}
	if err := d.Needs.check(deps); err != nil {
		return nil, fmt.Errorf("action %q: %w", name, err)
	}
	return d.Handler(ctx, Invocation{Params: params, Deps: deps, Log: r.log.Named(name)})
}
