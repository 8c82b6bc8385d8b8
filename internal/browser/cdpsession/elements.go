// internal/browser/cdpsession/elements.go
package cdpsession

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// rebuildElements walks a fresh DOM snapshot and assigns sequential
// indexes, starting at 1, to every interactive element in document order.
// The indexes are what the agent addresses until the next capture.
func (s *Session) rebuildElements(ctx context.Context) error {
	root, err := s.dom.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshotting DOM: %w", err)
	}

	elements := make(map[int]schemas.NodeHandle)
	for i, node := range collectInteractive(root) {
		elements[i+1] = nodeHandle(node)
	}
	s.elements = elements
	return nil
}

// invalidateElements drops the index map after document identity changes.
// The next index lookup rebuilds it against the new page.
func (s *Session) invalidateElements() {
	s.elements = nil
}

// elementByIndex resolves an agent-facing index against the element map,
// rebuilding the map when navigation has cleared it.
func (s *Session) elementByIndex(ctx context.Context, index int) (schemas.NodeHandle, error) {
	if s.elements == nil {
		if err := s.rebuildElements(ctx); err != nil {
			return schemas.NodeHandle{}, err
		}
	}
	handle, ok := s.elements[index]
	if !ok {
		return schemas.NodeHandle{}, schemas.NewBrowserErrorWithDetail(
			fmt.Sprintf("Element %d does not exist in the current page state.", index),
			"Take a screenshot or capture the page to refresh the element indexes.",
		)
	}
	return handle, nil
}

// NodeByIndex resolves an interactive-element index to a live node handle.
func (s *Session) NodeByIndex(ctx context.Context, index int) (*schemas.NodeHandle, error) {
	runCtx, cancel := s.runCtx(ctx, s.cfg.ActionTimeout)
	defer cancel()

	handle, err := s.elementByIndex(runCtx, index)
	if err != nil {
		return nil, callerErr(ctx, err)
	}
	return &handle, nil
}

// ElementAt resolves the element under a real-viewport coordinate.
func (s *Session) ElementAt(ctx context.Context, p schemas.Point) (*schemas.NodeHandle, error) {
	runCtx, cancel := s.runCtx(ctx, s.cfg.ActionTimeout)
	defer cancel()

	var handle schemas.NodeHandle
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		backendID, _, _, err := cdpdom.GetNodeForLocation(p.X, p.Y).Do(ctx)
		if err != nil {
			return schemas.NewBrowserError(fmt.Sprintf("No element found at %s: %v", p, err))
		}
		node, err := cdpdom.DescribeNode().WithBackendNodeID(backendID).Do(ctx)
		if err != nil {
			return fmt.Errorf("describing node at %s: %w", p, err)
		}
		handle = nodeHandle(node)
		if handle.BackendID == 0 {
			handle.BackendID = schemas.BackendNodeID(backendID)
		}
		return nil
	}))
	if err != nil {
		return nil, callerErr(ctx, err)
	}
	return &handle, nil
}

// -- Interactive element detection --

var interactiveTags = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

var interactiveRoles = map[string]bool{
	"button":   true,
	"link":     true,
	"checkbox": true,
	"radio":    true,
	"menuitem": true,
	"tab":      true,
}

// isInteractive reports whether a node should receive an agent-facing
// index. Hidden inputs, disabled controls, and aria-hidden nodes are
// excluded even when their tag would otherwise qualify.
func isInteractive(n *cdp.Node) bool {
	if n == nil || n.NodeType != cdp.NodeTypeElement {
		return false
	}
	attrs := attrsOf(n)
	if attrs["aria-hidden"] == "true" {
		return false
	}
	if _, disabled := attrs["disabled"]; disabled {
		return false
	}

	tag := strings.ToLower(n.LocalName)
	if tag == "input" && strings.EqualFold(attrs["type"], "hidden") {
		return false
	}
	if interactiveTags[tag] {
		return true
	}
	if interactiveRoles[strings.ToLower(attrs["role"])] {
		return true
	}
	if _, ok := attrs["onclick"]; ok {
		return true
	}
	if v, ok := attrs["contenteditable"]; ok && (v == "" || strings.EqualFold(v, "true")) {
		return true
	}
	return false
}

// collectInteractive gathers interactive elements in document order,
// descending through shadow roots and iframe content documents.
func collectInteractive(root *cdp.Node) []*cdp.Node {
	var out []*cdp.Node
	var walk func(n *cdp.Node)
	walk = func(n *cdp.Node) {
		if n == nil {
			return
		}
		if isInteractive(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
		for _, sr := range n.ShadowRoots {
			walk(sr)
		}
		if n.ContentDocument != nil {
			walk(n.ContentDocument)
		}
	}
	walk(root)
	return out
}

// nodeHandle converts a protocol node to the transport-agnostic handle the
// rest of the system works with.
func nodeHandle(n *cdp.Node) schemas.NodeHandle {
	return schemas.NodeHandle{
		BackendID:  schemas.BackendNodeID(n.BackendNodeID),
		Tag:        strings.ToLower(n.LocalName),
		Attributes: attrsOf(n),
	}
}

// attrsOf flattens the protocol's name/value attribute pairs into a map
// with lowercased names.
func attrsOf(n *cdp.Node) map[string]string {
	if len(n.Attributes) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(n.Attributes)/2)
	for i := 0; i+1 < len(n.Attributes); i += 2 {
		attrs[strings.ToLower(n.Attributes[i])] = n.Attributes[i+1]
	}
	return attrs
}
