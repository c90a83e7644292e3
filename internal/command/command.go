// Package command is the outer boundary of the service: it parses command
// envelopes, dispatches them to the registered action handlers and renders
// the outcome.
//
// It is the only place failures are logged, counted and reported. Handlers
// and the services below them return Results and never log failures
// themselves.
package command

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/jsonx"
	"dossier/pkg/result"
)

// Action names an operation, e.g. "savePeriod".
type Action string

func (a Action) String() string { return string(a) }

// Command is a parsed envelope.
type Command struct {
	ID      string
	Version domain.APIVersion
	Action  Action
	Params  jsonx.RawMessage
}

// Outcome is what a handler returns: a payload to render or a failure.
type Outcome = result.Result[any, dErrors.Fail]

// HandlerFunc executes one action.
type HandlerFunc func(ctx context.Context, cmd Command) Outcome

// Registry maps actions to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Action]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Action]HandlerFunc)}
}

// Handle registers fn for action. Registering an action twice is a wiring
// bug and panics.
func (r *Registry) Handle(action Action, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[action]; exists {
		panic(fmt.Sprintf("command: action %q registered twice", action))
	}
	r.handlers[action] = fn
}

func (r *Registry) Lookup(action Action) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[action]
	return fn, ok
}

// Actions lists registered actions in lexical order.
func (r *Registry) Actions() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Action, 0, len(r.handlers))
	for a := range r.handlers {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
