// internal/browser/cdpsession/domfacade.go
package cdpsession

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// domFacade is the session's node-level read view. Root refreshes the
// frontend snapshot; Parent answers from the snapshot's parent index and
// refreshes once on a miss. The other calls go straight to the protocol.
type domFacade struct {
	session *Session
	parents map[cdp.NodeID]cdp.NodeID
}

var _ schemas.DOM = (*domFacade)(nil)

func newDOMFacade(s *Session) *domFacade {
	return &domFacade{session: s}
}

// snapshot pulls the full piercing DOM tree and rebuilds the parent index.
func (d *domFacade) snapshot(ctx context.Context) (*cdp.Node, error) {
	var root *cdp.Node
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := cdpdom.GetDocument().WithDepth(-1).WithPierce(true).Do(ctx)
		if err != nil {
			return err
		}
		root = node
		return nil
	}))
	if err != nil {
		return nil, err
	}
	d.parents = parentIndex(root)
	return root, nil
}

func (d *domFacade) Root(ctx context.Context) (schemas.NodeID, error) {
	runCtx, cancel := d.session.runCtx(ctx, d.session.cfg.ActionTimeout)
	defer cancel()

	root, err := d.snapshot(runCtx)
	if err != nil {
		return 0, callerErr(ctx, fmt.Errorf("getting document root: %w", err))
	}
	return schemas.NodeID(root.NodeID), nil
}

func (d *domFacade) PushToFrontend(ctx context.Context, id schemas.BackendNodeID) (schemas.NodeID, error) {
	runCtx, cancel := d.session.runCtx(ctx, d.session.cfg.ActionTimeout)
	defer cancel()

	var out schemas.NodeID
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		ids, err := cdpdom.PushNodesByBackendIDsToFrontend([]cdp.BackendNodeID{cdp.BackendNodeID(id)}).Do(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 || ids[0] == 0 {
			return fmt.Errorf("backend node %d has no frontend node", id)
		}
		out = schemas.NodeID(ids[0])
		return nil
	}))
	if err != nil {
		return 0, callerErr(ctx, err)
	}
	return out, nil
}

func (d *domFacade) QueryAll(ctx context.Context, scope schemas.NodeID, selector string) ([]schemas.NodeID, error) {
	runCtx, cancel := d.session.runCtx(ctx, d.session.cfg.ActionTimeout)
	defer cancel()

	var out []schemas.NodeID
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		ids, err := cdpdom.QuerySelectorAll(cdp.NodeID(scope), selector).Do(ctx)
		if err != nil {
			return err
		}
		out = make([]schemas.NodeID, len(ids))
		for i, nodeID := range ids {
			out[i] = schemas.NodeID(nodeID)
		}
		return nil
	}))
	if err != nil {
		return nil, callerErr(ctx, fmt.Errorf("querying %q: %w", selector, err))
	}
	return out, nil
}

func (d *domFacade) Parent(ctx context.Context, id schemas.NodeID) (schemas.NodeID, error) {
	if parent, ok := d.parents[cdp.NodeID(id)]; ok {
		return schemas.NodeID(parent), nil
	}

	// Unseen node: the snapshot may predate it. Refresh once and retry.
	runCtx, cancel := d.session.runCtx(ctx, d.session.cfg.ActionTimeout)
	defer cancel()
	if _, err := d.snapshot(runCtx); err != nil {
		return 0, callerErr(ctx, fmt.Errorf("refreshing DOM snapshot: %w", err))
	}
	if parent, ok := d.parents[cdp.NodeID(id)]; ok {
		return schemas.NodeID(parent), nil
	}
	return 0, fmt.Errorf("node %d is not in the current document", id)
}

func (d *domFacade) Describe(ctx context.Context, id schemas.NodeID) (*schemas.NodeHandle, error) {
	runCtx, cancel := d.session.runCtx(ctx, d.session.cfg.ActionTimeout)
	defer cancel()

	var handle schemas.NodeHandle
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := cdpdom.DescribeNode().WithNodeID(cdp.NodeID(id)).Do(ctx)
		if err != nil {
			return err
		}
		handle = nodeHandle(node)
		return nil
	}))
	if err != nil {
		return nil, callerErr(ctx, fmt.Errorf("describing node %d: %w", id, err))
	}
	return &handle, nil
}

// parentIndex maps every node in the tree to its parent, descending
// through shadow roots and iframe content documents. The root maps to 0.
func parentIndex(root *cdp.Node) map[cdp.NodeID]cdp.NodeID {
	parents := make(map[cdp.NodeID]cdp.NodeID)
	if root == nil {
		return parents
	}
	parents[root.NodeID] = 0

	var walk func(n *cdp.Node)
	walk = func(n *cdp.Node) {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			parents[c.NodeID] = n.NodeID
			walk(c)
		}
		for _, sr := range n.ShadowRoots {
			if sr == nil {
				continue
			}
			parents[sr.NodeID] = n.NodeID
			walk(sr)
		}
		if n.ContentDocument != nil {
			parents[n.ContentDocument.NodeID] = n.NodeID
			walk(n.ContentDocument)
		}
	}
	walk(root)
	return parents
}
