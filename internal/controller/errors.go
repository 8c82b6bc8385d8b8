// internal/controller/errors.go
package controller

import "errors"

// Sentinel errors for the dispatch layer. These are the faults the
// boundary does NOT recover into the outcome envelope: each one indicates
// a wiring or contract bug in the caller, not a condition the agent can
// reason about.
var (
	// ErrUnknownAction is returned when a request names an action that was
	// never registered (or was excluded).
	ErrUnknownAction = errors.New("unknown action")

	// ErrDuplicateAction is returned by Register when the name is taken.
	// Registration is explicit and silent replacement hides wiring bugs.
	ErrDuplicateAction = errors.New("action already registered")

	// ErrMissingCollaborator is returned when an action's declared
	// collaborator needs are not satisfied by the supplied Deps.
	ErrMissingCollaborator = errors.New("required collaborator not configured")

	// ErrInvalidHandlerReturn is returned when a handler yields a value
	// outside its contract (nil, string, or *schemas.ActionResult).
	ErrInvalidHandlerReturn = errors.New("handler returned unsupported type")
)
