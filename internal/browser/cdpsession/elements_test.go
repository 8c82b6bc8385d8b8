// internal/browser/cdpsession/elements_test.go
package cdpsession

import (
	"context"
	"strings"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// elem builds an element node with flat attribute pairs, the way the
// protocol delivers them.
func elem(id int64, tag string, attrs ...string) *cdp.Node {
	return &cdp.Node{
		NodeID:        cdp.NodeID(id),
		BackendNodeID: cdp.BackendNodeID(id + 100),
		NodeType:      cdp.NodeTypeElement,
		NodeName:      strings.ToUpper(tag),
		LocalName:     tag,
		Attributes:    attrs,
	}
}

// -- Interactive detection --

func TestIsInteractive(t *testing.T) {
	defer goleak.VerifyNone(t)

	cases := []struct {
		name string
		node *cdp.Node
		want bool
	}{
		{"Button", elem(1, "button"), true},
		{"Anchor", elem(2, "a", "href", "/next"), true},
		{"Select", elem(3, "select"), true},
		{"Textarea", elem(4, "textarea"), true},
		{"TextInput", elem(5, "input", "type", "text"), true},
		{"HiddenInput", elem(6, "input", "type", "hidden"), false},
		{"DisabledButton", elem(7, "button", "disabled", ""), false},
		{"AriaHiddenButton", elem(8, "button", "aria-hidden", "true"), false},
		{"RoleButtonDiv", elem(9, "div", "role", "button"), true},
		{"RoleTooltipDiv", elem(10, "div", "role", "tooltip"), false},
		{"OnclickDiv", elem(11, "div", "onclick", "go()"), true},
		{"ContenteditableDiv", elem(12, "div", "contenteditable", "true"), true},
		{"ContenteditableEmptyValue", elem(13, "div", "contenteditable", ""), true},
		{"ContenteditableFalse", elem(14, "div", "contenteditable", "false"), false},
		{"PlainDiv", elem(15, "div"), false},
		{"TextNode", &cdp.Node{NodeID: 16, NodeType: cdp.NodeTypeText, NodeValue: "hello"}, false},
		{"Nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isInteractive(tc.node))
		})
	}
}

func TestCollectInteractiveDocumentOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	saveButton := elem(2, "button", "id", "save")
	clickableDiv := elem(3, "div", "onclick", "go()")
	plainDiv := elem(4, "div")
	passwordInput := elem(5, "input", "type", "password")
	hiddenInput := elem(6, "input", "type", "hidden")
	disabledButton := elem(7, "button", "disabled", "")
	shadowButton := elem(8, "button", "id", "inside-shadow")
	frameLink := elem(9, "a", "href", "/frame")

	host := elem(10, "div")
	host.ShadowRoots = []*cdp.Node{{
		NodeID:   11,
		NodeType: cdp.NodeTypeDocumentFragment,
		Children: []*cdp.Node{shadowButton},
	}}
	iframe := elem(12, "iframe", "src", "about:blank")
	iframe.ContentDocument = &cdp.Node{
		NodeID:   13,
		NodeType: cdp.NodeTypeDocument,
		Children: []*cdp.Node{frameLink},
	}

	body := elem(1, "body")
	body.Children = []*cdp.Node{
		saveButton, clickableDiv, plainDiv, passwordInput,
		hiddenInput, disabledButton, host, iframe,
	}
	root := &cdp.Node{NodeID: 100, NodeType: cdp.NodeTypeDocument, Children: []*cdp.Node{body}}

	got := collectInteractive(root)

	// Verification: interactive nodes only, in document order, descending
	// into the shadow root and the iframe document.
	require.Len(t, got, 5)
	assert.Same(t, saveButton, got[0])
	assert.Same(t, clickableDiv, got[1])
	assert.Same(t, passwordInput, got[2])
	assert.Same(t, shadowButton, got[3])
	assert.Same(t, frameLink, got[4])
}

// -- Handle conversion --

func TestNodeHandleConversion(t *testing.T) {
	defer goleak.VerifyNone(t)

	n := elem(42, "input", "TYPE", "file", "data-Upload", "1")
	h := nodeHandle(n)

	assert.Equal(t, schemas.BackendNodeID(142), h.BackendID)
	assert.Equal(t, "input", h.Tag)
	assert.Equal(t, "file", h.Attr("type"))
	assert.Equal(t, "1", h.Attr("data-upload"))
	assert.True(t, h.IsFileInput())
}

func TestAttrsOfEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert.Nil(t, attrsOf(elem(1, "div")))
}

// -- Index resolution --

func TestElementByIndex(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("ResolvesKnownIndex", func(t *testing.T) {
		s, _ := testSession(t)
		s.elements = map[int]schemas.NodeHandle{1: {BackendID: 42, Tag: "button"}}

		h, err := s.elementByIndex(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, schemas.BackendNodeID(42), h.BackendID)
	})

	t.Run("MissingIndexIsRecoverable", func(t *testing.T) {
		s, _ := testSession(t)
		s.elements = map[int]schemas.NodeHandle{1: {BackendID: 42, Tag: "button"}}

		_, err := s.elementByIndex(context.Background(), 99)
		var bErr *schemas.BrowserError
		require.ErrorAs(t, err, &bErr)
		assert.Contains(t, bErr.Memory, "Element 99 does not exist")
	})

	t.Run("RebuildFailureSurfaces", func(t *testing.T) {
		s, _ := testSession(t)

		// No element map and no browser: the rebuild attempt must fail
		// loudly rather than invent an empty map.
		_, err := s.elementByIndex(context.Background(), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "snapshotting DOM")
	})
}

func TestNodeByIndexPrefersCallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)
	s, _ := testSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.NodeByIndex(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestInvalidateElements(t *testing.T) {
	defer goleak.VerifyNone(t)
	s, _ := testSession(t)

	s.elements = map[int]schemas.NodeHandle{1: {BackendID: 42}}
	s.invalidateElements()
	assert.Nil(t, s.elements)
}
