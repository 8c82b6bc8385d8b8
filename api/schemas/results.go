package schemas

// -- Action Outcome Schemas --

// ActionResult is the uniform outcome envelope for every executed action.
// Success and failure travel through the same shape; only contract
// violations between the engine and its handlers surface as Go errors.
// A result is never mutated after the boundary returns it.
type ActionResult struct {
	// Content is the primary text surfaced to the agent in its next
	// observation and kept in the rolling message state.
	Content string `json:"content,omitempty"`
	// Memory is durable text for the agent's long-term memory.
	Memory string `json:"memory,omitempty"`
	// Transient is one-shot text shown in the next observation only and
	// then discarded.
	Transient string `json:"transient,omitempty"`
	// Error describes a recovered failure in agent-readable terms.
	Error string `json:"error,omitempty"`
	// Done marks the task as finished. Success is only meaningful when
	// Done is set.
	Done    bool  `json:"is_done,omitempty"`
	Success *bool `json:"success,omitempty"`
	// Attachments names sandbox files produced by the action.
	Attachments []string `json:"attachments,omitempty"`
	// Metadata carries structured side data (timings, geometry, counts).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TextResult wraps plain content in an envelope.
func TextResult(content string) *ActionResult {
	return &ActionResult{Content: content}
}

// ErrorResult wraps a recovered failure message in an envelope.
func ErrorResult(msg string) *ActionResult {
	return &ActionResult{Error: msg}
}

// Failed reports whether the result records a recovered failure.
func (r *ActionResult) Failed() bool {
	return r != nil && r.Error != ""
}

// -- Browser Fault Schema --

// BrowserError is the expected, recoverable fault for browser-layer
// failures: a missing element, a stale index, a refused interaction. It is
// raised by handlers and collaborators, recovered only at the execution
// boundary, and rendered into the outcome envelope rather than propagated.
type BrowserError struct {
	// Memory is the durable description of the failure, always surfaced.
	Memory string
	// Transient optionally carries one-shot detail (a DOM excerpt, a hint)
	// shown in the next observation only.
	Transient string
}

// NewBrowserError builds a fault whose message persists in agent memory.
func NewBrowserError(memory string) *BrowserError {
	return &BrowserError{Memory: memory}
}

// NewBrowserErrorWithDetail builds a fault with an additional one-shot hint.
func NewBrowserErrorWithDetail(memory, transient string) *BrowserError {
	return &BrowserError{Memory: memory, Transient: transient}
}

func (e *BrowserError) Error() string {
	if e.Transient != "" {
		return e.Memory + ": " + e.Transient
	}
	return e.Memory
}
