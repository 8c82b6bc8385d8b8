// internal/controller/invoke_test.go
package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func TestInvokeNamed(t *testing.T) {
	t.Parallel()

	t.Run("UnknownName", func(t *testing.T) {
		c := New(NewDefaultRegistry(zaptest.NewLogger(t)), zaptest.NewLogger(t))
		_, err := c.InvokeNamed(context.Background(), "teleport", []byte(`{}`), Deps{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownAction)
		assert.Contains(t, err.Error(), "teleport")
	})

	t.Run("EveryActionHasASetter", func(t *testing.T) {
		c := New(NewDefaultRegistry(zaptest.NewLogger(t)), zaptest.NewLogger(t))
		for _, name := range c.Registry().Names() {
			assert.Contains(t, requestSetters, name,
				"action %q is registered but not invocable by name", name)
		}
	})

	t.Run("EmptyRawMeansDefaults", func(t *testing.T) {
		c := spyController(t, func(_ context.Context, inv Invocation) (any, error) {
			assert.IsType(t, &schemas.GoBackParams{}, inv.Params)
			return "ok", nil
		})
		res, err := c.InvokeNamed(context.Background(), schemas.ActionGoBack, nil, Deps{})
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Content)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		c := New(NewDefaultRegistry(zaptest.NewLogger(t)), zaptest.NewLogger(t))
		_, err := c.InvokeNamed(context.Background(), schemas.ActionWait, []byte(`{"seconds":`), Deps{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid parameters for "wait"`)
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		c := New(NewDefaultRegistry(zaptest.NewLogger(t)), zaptest.NewLogger(t))
		_, err := c.InvokeNamed(context.Background(), schemas.ActionWait, []byte(`{"seconds": 1, "minutes": 2}`), Deps{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid parameters for "wait"`)
	})

	t.Run("RoutesThroughTheBoundary", func(t *testing.T) {
		// A browser fault raised by the handler must come back as an
		// envelope, proving the call went through Act rather than straight
		// to the registry.
		c := spyController(t, func(_ context.Context, _ Invocation) (any, error) {
			return nil, schemas.NewBrowserError("The page went away.")
		})
		res, err := c.InvokeNamed(context.Background(), schemas.ActionGoBack, nil, Deps{})
		require.NoError(t, err)
		assert.Equal(t, "The page went away.", res.Error)
	})

	t.Run("ParamsReachTheHandler", func(t *testing.T) {
		r := NewRegistry(zaptest.NewLogger(t))
		var got *schemas.WaitParams
		require.NoError(t, r.Register(Descriptor{
			Name: schemas.ActionWait,
			Handler: func(_ context.Context, inv Invocation) (any, error) {
				got = inv.Params.(*schemas.WaitParams)
				return nil, nil
			},
		}))
		c := New(r, zaptest.NewLogger(t))

		_, err := c.InvokeNamed(context.Background(), schemas.ActionWait, []byte(`{"seconds": 7}`), Deps{})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 7, got.Seconds)
	})
}

func TestDecodeActionRequest(t *testing.T) {
	t.Parallel()

	t.Run("WellFormed", func(t *testing.T) {
		req, err := DecodeActionRequest([]byte(`{"navigate": {"url": "https://example.com"}}`))
		require.NoError(t, err)
		name, params := req.First()
		assert.Equal(t, schemas.ActionNavigate, name)
		require.IsType(t, &schemas.NavigateParams{}, params)
		assert.Equal(t, "https://example.com", params.(*schemas.NavigateParams).URL)
	})

	t.Run("HallucinatedActionRejected", func(t *testing.T) {
		_, err := DecodeActionRequest([]byte(`{"browse_web": {"url": "https://example.com"}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding action request")
	})

	t.Run("EmptyObjectDecodesToEmptyRequest", func(t *testing.T) {
		req, err := DecodeActionRequest([]byte(`{}`))
		require.NoError(t, err)
		name, _ := req.First()
		assert.Empty(t, name)
	})
}
