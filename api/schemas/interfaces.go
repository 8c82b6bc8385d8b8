package schemas

import (
	"context"
	"encoding/json"
)

// -- Browser Session Interface --

// BrowserSession defines the interface for controlling a single browser
// tab. It is the execution engine's primary collaborator: handlers never
// speak the wire protocol directly, they dispatch typed events and read
// back JSON payloads. One action is in flight per session at a time, so
// implementations are single-writer by contract and add no locking for
// action-path state.
//
//go:generate mockery --name BrowserSession --output ../../internal/mocks --outpkg mocks
type BrowserSession interface {
	// ID returns the unique ID of the session.
	ID() string
	// Dispatch executes a typed browser event and returns its payload.
	// Expected browser-layer failures come back as *BrowserError.
	Dispatch(ctx context.Context, ev BrowserEvent) (json.RawMessage, error)
	// Protocol exposes the raw protocol channel for direct invocation.
	Protocol() ProtocolSession
	// DOM exposes the node-level read facade used by proximity search.
	DOM() DOM
	// NodeByIndex resolves an interactive-element index from the session's
	// current element map to a live node handle.
	NodeByIndex(ctx context.Context, index int) (*NodeHandle, error)
	// ElementAt resolves the topmost element at a real-viewport point.
	ElementAt(ctx context.Context, p Point) (*NodeHandle, error)
	// CurrentURL returns the session's current page URL.
	CurrentURL(ctx context.Context) (string, error)
	// FrameSizes returns the agent frame (last downscaled capture) and the
	// real viewport. Either may be empty when not yet known.
	FrameSizes() (agent Size, viewport Size)
	// Highlight paints a short-lived marker at a real-viewport point. It
	// is fire-and-forget: it returns immediately and its outcome never
	// affects the action that requested it.
	Highlight(p Point)
	// Close releases the session and its browser resources.
	Close(ctx context.Context) error
}

// ProtocolSession is the raw protocol escape hatch. Method is the dotted
// protocol form ("Page.navigate", "DOM.getDocument"); params and result are
// untyped JSON. No validation or classification is applied: faults
// propagate exactly as the protocol layer reports them.
type ProtocolSession interface {
	Send(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

// DOM is the narrow node-level read facade required by proximity search.
// Implementations are expected to be cheap views over the session's
// protocol channel; test doubles implement it over in-memory trees.
//
//go:generate mockery --name DOM --output ../../internal/mocks --outpkg mocks
type DOM interface {
	// Root returns the document root of the current frontend snapshot.
	Root(ctx context.Context) (NodeID, error)
	// PushToFrontend maps a stable backend ID into the current frontend
	// snapshot so the node can be used as a query scope.
	PushToFrontend(ctx context.Context, id BackendNodeID) (NodeID, error)
	// QueryAll runs a CSS selector within the subtree rooted at scope.
	QueryAll(ctx context.Context, scope NodeID, selector string) ([]NodeID, error)
	// Parent returns the parent of a node, or 0 at the tree root.
	Parent(ctx context.Context, id NodeID) (NodeID, error)
	// Describe returns the handle for a frontend node.
	Describe(ctx context.Context, id NodeID) (*NodeHandle, error)
}

// -- File System Interface --

// FileSystem is the agent's sandboxed file store. Names are logical,
// relative paths; implementations reject traversal outside the sandbox.
//
//go:generate mockery --name FileSystem --output ../../internal/mocks --outpkg mocks
type FileSystem interface {
	// Read returns the content of the named file.
	Read(ctx context.Context, name string) (string, error)
	// Write creates or truncates the named file with content.
	Write(ctx context.Context, name, content string) error
	// Append appends content to the named file, creating it if needed.
	Append(ctx context.Context, name, content string) error
	// ReplaceString substitutes every occurrence of old with new in the
	// named file and reports the number of replacements.
	ReplaceString(ctx context.Context, name, old, new string) (int, error)
	// SaveExtracted stores content under a generated extraction file name
	// and returns that name.
	SaveExtracted(ctx context.Context, content string) (string, error)
	// List returns the names of all files in the sandbox.
	List(ctx context.Context) ([]string, error)
}

// -- LLM Client Schemas & Interface --

// ModelTier allows for selecting a large language model based on a
// preference for speed versus advanced capabilities.
type ModelTier string

const (
	TierFast     ModelTier = "fast"     // Prefers a faster, potentially less capable model.
	TierPowerful ModelTier = "powerful" // Prefers a more capable, potentially slower model.
)

// GenerationOptions provides detailed parameters to control the text
// generation process of the LLM.
type GenerationOptions struct {
	Temperature     float64 `json:"temperature"`       // Controls randomness. Lower is more deterministic.
	ForceJSONFormat bool    `json:"force_json_format"` // If true, forces the model to output valid JSON.
	TopP            float64 `json:"top_p"`             // Nucleus sampling parameter.
	TopK            int     `json:"top_k"`             // Top-k sampling parameter.
}

// GenerationRequest encapsulates a complete request to the LLM, including
// the system and user prompts, the desired model tier, and generation
// options.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"` // Instructions for the model's persona and task.
	UserPrompt   string            `json:"user_prompt"`   // The specific query or input from the user.
	Tier         ModelTier         `json:"tier"`          // The desired model tier (fast or powerful).
	Options      GenerationOptions `json:"options"`       // Advanced generation parameters.
}

// LLMClient defines a standard interface for interacting with a Large
// Language Model, abstracting the specifics of the underlying provider.
//
//go:generate mockery --name LLMClient --output ../../internal/mocks --outpkg mocks
type LLMClient interface {
	// Generate produces a text completion based on the provided request.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// Close cleans up any resources held by the client.
	Close() error
}
