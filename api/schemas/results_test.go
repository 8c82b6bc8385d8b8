package schemas_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func TestBrowserError(t *testing.T) {
	t.Parallel()

	t.Run("MemoryOnly", func(t *testing.T) {
		t.Parallel()
		err := schemas.NewBrowserError("element 12 is no longer attached")
		assert.Equal(t, "element 12 is no longer attached", err.Error())
		assert.Empty(t, err.Transient)
	})

	t.Run("WithDetail", func(t *testing.T) {
		t.Parallel()
		err := schemas.NewBrowserErrorWithDetail("click refused", "node is a <select>, use select_dropdown_option")
		assert.Equal(t, "click refused: node is a <select>, use select_dropdown_option", err.Error())
	})

	t.Run("SurvivesWrapping", func(t *testing.T) {
		t.Parallel()
		// The boundary classifies via errors.As, so wrapping along the way
		// must not hide the fault.
		inner := schemas.NewBrowserError("no file input found near element 4")
		wrapped := fmt.Errorf("upload_file: %w", inner)

		var be *schemas.BrowserError
		require.True(t, errors.As(wrapped, &be))
		assert.Equal(t, "no file input found near element 4", be.Memory)
	})
}

func TestActionResultHelpers(t *testing.T) {
	t.Parallel()

	res := schemas.TextResult("clicked element 3")
	assert.Equal(t, "clicked element 3", res.Content)
	assert.False(t, res.Failed())

	res = schemas.ErrorResult("element 3 not found")
	assert.True(t, res.Failed())
	assert.Empty(t, res.Content)

	var nilRes *schemas.ActionResult
	assert.False(t, nilRes.Failed())
}

func TestNodeHandle(t *testing.T) {
	t.Parallel()

	input := &schemas.NodeHandle{
		BackendID:  42,
		Tag:        "input",
		Attributes: map[string]string{"type": "file", "name": "avatar"},
	}
	assert.True(t, input.IsFileInput())
	assert.Equal(t, "avatar", input.Attr("name"))
	assert.Empty(t, input.Attr("missing"))

	button := &schemas.NodeHandle{BackendID: 7, Tag: "button"}
	assert.False(t, button.IsFileInput())

	var absent *schemas.NodeHandle
	assert.False(t, absent.IsFileInput())
	assert.Empty(t, absent.Attr("type"))
}

func TestSizeEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, schemas.Size{}.Empty())
	assert.True(t, schemas.Size{Width: -1, Height: 600}.Empty())
	assert.True(t, schemas.Size{Width: 800}.Empty())
	assert.False(t, schemas.Size{Width: 800, Height: 600}.Empty())
}
