// internal/browser/domsearch/domsearch.go
package domsearch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// File pickers on real pages rarely expose the <input type="file"> the
// agent needs: the visible element is a styled button, label, or dropzone
// and the input sits hidden somewhere nearby. The Finder walks outward
// from the element the agent addressed, widening the scope one layer at a
// time, and hands back the first real file input it meets.

// ErrNoFileInput reports that every search layer came up empty. Callers
// convert it into an agent-readable fault rather than propagating it.
var ErrNoFileInput = errors.New("no file input found near element")

// fileInputSelector matches the real upload control, hidden or not.
const fileInputSelector = `input[type="file"]`

// Finder performs proximity search over a session's DOM facade.
type Finder struct {
	dom schemas.DOM
	log *zap.Logger
}

// NewFinder builds a Finder over the given DOM facade.
func NewFinder(dom schemas.DOM, logger *zap.Logger) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{dom: dom, log: logger.Named("domsearch")}
}

// FindFileInput locates the file input nearest start. Layers are tried in
// order and the first hit wins:
//
//  1. start itself, then its descendants
//  2. the subtree of start's parent (siblings and their children)
//  3. the whole document
//
// A protocol failure or empty result in any layer is a miss for that layer
// only; the search keeps widening. Only when every layer misses does it
// return ErrNoFileInput.
func (f *Finder) FindFileInput(ctx context.Context, start *schemas.NodeHandle) (*schemas.NodeHandle, error) {
	if start == nil {
		return nil, ErrNoFileInput
	}
	if start.IsFileInput() {
		return start, nil
	}

	scope, err := f.dom.PushToFrontend(ctx, start.BackendID)
	if err != nil {
		f.log.Debug("Could not map clicked node into frontend, falling back to page-wide search.",
			zap.Int64("backend_id", int64(start.BackendID)), zap.Error(err))
		scope = 0
	}

	if scope != 0 {
		if h := f.queryScope(ctx, scope, "descendants"); h != nil {
			return h, nil
		}
		if parent, err := f.dom.Parent(ctx, scope); err != nil {
			f.log.Debug("Parent lookup failed, skipping sibling layer.", zap.Error(err))
		} else if parent != 0 {
			if h := f.queryScope(ctx, parent, "siblings"); h != nil {
				return h, nil
			}
		}
	}

	root, err := f.dom.Root(ctx)
	if err != nil {
		f.log.Debug("Document root lookup failed.", zap.Error(err))
		return nil, ErrNoFileInput
	}
	if h := f.queryScope(ctx, root, "document"); h != nil {
		return h, nil
	}
	return nil, ErrNoFileInput
}

// queryScope runs the file-input selector within one scope and resolves
// the first hit. Any failure is logged and treated as a miss.
func (f *Finder) queryScope(ctx context.Context, scope schemas.NodeID, layer string) *schemas.NodeHandle {
	ids, err := f.dom.QueryAll(ctx, scope, fileInputSelector)
	if err != nil {
		f.log.Debug("File input query failed.", zap.String("layer", layer), zap.Error(err))
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	handle, err := f.dom.Describe(ctx, ids[0])
	if err != nil {
		f.log.Debug("Describe of file input candidate failed.",
			zap.String("layer", layer), zap.Int64("node_id", int64(ids[0])), zap.Error(err))
		return nil
	}
	f.log.Debug("File input located.",
		zap.String("layer", layer), zap.Int64("backend_id", int64(handle.BackendID)))
	return handle
}
