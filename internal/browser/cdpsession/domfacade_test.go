// internal/browser/cdpsession/domfacade_test.go
package cdpsession

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func TestParentIndex(t *testing.T) {
	defer goleak.VerifyNone(t)

	child := elem(3, "button")
	shadowChild := elem(5, "input", "type", "file")
	frameChild := elem(7, "a", "href", "/x")

	host := elem(2, "div")
	host.Children = []*cdp.Node{child}
	host.ShadowRoots = []*cdp.Node{{
		NodeID:   4,
		NodeType: cdp.NodeTypeDocumentFragment,
		Children: []*cdp.Node{shadowChild},
	}}
	iframe := elem(6, "iframe")
	iframe.ContentDocument = &cdp.Node{
		NodeID:   8,
		NodeType: cdp.NodeTypeDocument,
		Children: []*cdp.Node{frameChild},
	}

	root := &cdp.Node{NodeID: 1, NodeType: cdp.NodeTypeDocument, Children: []*cdp.Node{host, iframe}}
	parents := parentIndex(root)

	// Verification: every edge is recorded, including shadow and iframe
	// boundaries, and the root maps to zero.
	assert.Equal(t, cdp.NodeID(0), parents[1])
	assert.Equal(t, cdp.NodeID(1), parents[2])
	assert.Equal(t, cdp.NodeID(2), parents[3])
	assert.Equal(t, cdp.NodeID(2), parents[4])
	assert.Equal(t, cdp.NodeID(4), parents[5])
	assert.Equal(t, cdp.NodeID(1), parents[6])
	assert.Equal(t, cdp.NodeID(6), parents[8])
	assert.Equal(t, cdp.NodeID(8), parents[7])
}

func TestParentIndexNilRoot(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert.Empty(t, parentIndex(nil))
}

func TestDOMFacadeParent(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("AnswersFromSnapshot", func(t *testing.T) {
		s, _ := testSession(t)
		s.dom.parents = map[cdp.NodeID]cdp.NodeID{10: 4, 4: 0}

		parent, err := s.dom.Parent(context.Background(), schemas.NodeID(10))
		require.NoError(t, err)
		assert.Equal(t, schemas.NodeID(4), parent)
	})

	t.Run("RootHasZeroParent", func(t *testing.T) {
		s, _ := testSession(t)
		s.dom.parents = map[cdp.NodeID]cdp.NodeID{4: 0}

		parent, err := s.dom.Parent(context.Background(), schemas.NodeID(4))
		require.NoError(t, err)
		assert.Equal(t, schemas.NodeID(0), parent)
	})

	t.Run("UnknownNodeTriggersRefresh", func(t *testing.T) {
		s, _ := testSession(t)
		s.dom.parents = map[cdp.NodeID]cdp.NodeID{4: 0}

		// Without a browser the refresh fails, and that failure surfaces
		// instead of a silent zero parent.
		_, err := s.dom.Parent(context.Background(), schemas.NodeID(999))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refreshing DOM snapshot")
	})
}
