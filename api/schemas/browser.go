package schemas

import "fmt"

// -- Coordinate Schemas --

// Point is a pixel coordinate pair. Which frame it is expressed in (the
// agent's downscaled frame or the real viewport) is determined by context;
// the transform between the two lives in the coords package.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is a frame dimension in pixels.
type Size struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Empty reports whether either dimension is non-positive. An empty size
// means the frame is unknown and coordinate transforms fall back to
// identity.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// -- DOM Node Schemas --

// NodeID identifies a node within the browser's current frontend DOM
// snapshot. It is ephemeral and invalidated by document mutation. Local
// replacement for cdproto/cdp.NodeID so that api stays protocol-agnostic.
type NodeID int64

// BackendNodeID is the browser's stable node identifier, valid for the
// lifetime of the node regardless of frontend snapshots. Local replacement
// for cdproto/cdp.BackendNodeID.
type BackendNodeID int64

// NodeHandle is a transient reference to a live DOM element, carrying just
// enough identity and metadata for dispatch decisions. It holds no element
// state beyond what is recorded at resolution time.
type NodeHandle struct {
	BackendID  BackendNodeID     `json:"backend_id"`
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attr returns the named attribute, or "" when absent.
func (h *NodeHandle) Attr(name string) string {
	if h == nil || h.Attributes == nil {
		return ""
	}
	return h.Attributes[name]
}

// IsFileInput reports whether the node is an <input type="file">.
func (h *NodeHandle) IsFileInput() bool {
	return h != nil && h.Tag == "input" && h.Attr("type") == "file"
}

// NodeTarget addresses an element either by its interactive-element index
// (resolved by the session's element map) or by a point in the agent's
// frame. Exactly one field is set.
type NodeTarget struct {
	Index *int   `json:"index,omitempty"`
	Point *Point `json:"point,omitempty"`
}

func (t NodeTarget) String() string {
	if t.Index != nil {
		return fmt.Sprintf("index %d", *t.Index)
	}
	if t.Point != nil {
		return "point " + t.Point.String()
	}
	return "unaddressed"
}

// -- Keyboard Schemas --

// KeyEventData represents a structured key event, including the main key
// and active modifiers.
type KeyEventData struct {
	// Key is the primary key pressed (e.g., "a", "Enter", "Tab"). It must
	// match the string expected by the underlying executor (chromedp/kb).
	Key string
	// Modifiers is a bitmask of active modifiers.
	Modifiers KeyModifier
}

// KeyModifier represents keyboard modifiers (Ctrl, Alt, Shift, Meta).
// These values correspond directly to the CDP input.DispatchKeyEvent
// modifiers bitfield.
type KeyModifier int

const (
	ModNone  KeyModifier = 0
	ModAlt   KeyModifier = 1
	ModCtrl  KeyModifier = 2
	ModMeta  KeyModifier = 4
	ModShift KeyModifier = 8
)
