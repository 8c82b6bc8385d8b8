// internal/browser/cdpsession/input.go
package cdpsession

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func (s *Session) click(ctx context.Context, ev schemas.ClickEvent) (json.RawMessage, error) {
	if ev.Target.Point != nil {
		// Point targets arrive already transformed to real viewport pixels.
		return nil, s.clickAt(ctx, float64(ev.Target.Point.X), float64(ev.Target.Point.Y))
	}
	if ev.Target.Index == nil {
		return nil, fmt.Errorf("click event carries no target")
	}

	handle, err := s.elementByIndex(ctx, *ev.Target.Index)
	if err != nil {
		return nil, err
	}

	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdpdom.ScrollIntoViewIfNeeded().WithBackendNodeID(cdp.BackendNodeID(handle.BackendID)).Do(ctx)
	})); err != nil {
		return nil, schemas.NewBrowserError(fmt.Sprintf("Element %d could not be scrolled into view: %v", *ev.Target.Index, err))
	}

	x, y, err := s.nodeCenter(ctx, handle.BackendID)
	if err != nil {
		return nil, schemas.NewBrowserError(fmt.Sprintf("Element %d has no visible box to click: %v", *ev.Target.Index, err))
	}
	return nil, s.clickAt(ctx, x, y)
}

// clickAt dispatches a left button press and release at viewport
// coordinates.
func (s *Session) clickAt(ctx context.Context, x, y float64) error {
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MousePressed, x, y).
				WithButton(input.Left).
				WithClickCount(1).
				Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MouseReleased, x, y).
				WithButton(input.Left).
				WithClickCount(1).
				Do(ctx)
		}),
	)
}

// nodeCenter returns the viewport center of a node's content box.
func (s *Session) nodeCenter(ctx context.Context, id schemas.BackendNodeID) (float64, float64, error) {
	var x, y float64
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		box, err := cdpdom.GetBoxModel().WithBackendNodeID(cdp.BackendNodeID(id)).Do(ctx)
		if err != nil {
			return err
		}
		if box == nil || len(box.Content) < 8 {
			return fmt.Errorf("node has no content box")
		}
		// Content quad vertices run clockwise from the top left corner.
		x = (box.Content[0] + box.Content[4]) / 2
		y = (box.Content[1] + box.Content[5]) / 2
		return nil
	}))
	return x, y, err
}

// clearValueScript empties form controls and editable nodes in place,
// firing the input event frameworks listen for.
const clearValueScript = `function() {
	if ('value' in this) {
		this.value = '';
		this.dispatchEvent(new Event('input', {bubbles: true}));
	} else {
		this.textContent = '';
	}
}`

func (s *Session) typeText(ctx context.Context, ev schemas.TypeTextEvent) (json.RawMessage, error) {
	handle, err := s.elementByIndex(ctx, ev.Index)
	if err != nil {
		return nil, err
	}

	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdpdom.Focus().WithBackendNodeID(cdp.BackendNodeID(handle.BackendID)).Do(ctx)
	})); err != nil {
		return nil, schemas.NewBrowserError(fmt.Sprintf("Element %d could not be focused: %v", ev.Index, err))
	}

	if ev.Clear {
		if err := s.callOnNode(ctx, handle.BackendID, clearValueScript, nil, nil); err != nil {
			return nil, fmt.Errorf("clearing element %d: %w", ev.Index, err)
		}
	}

	if err := chromedp.Run(ctx, chromedp.KeyEvent(ev.Text)); err != nil {
		return nil, fmt.Errorf("typing into element %d: %w", ev.Index, err)
	}
	return nil, nil
}

func (s *Session) scroll(ctx context.Context, ev schemas.ScrollEvent) (json.RawMessage, error) {
	// Wheel events scroll whichever container sits under the cursor, so
	// container scrolls aim at the element's center and page scrolls at
	// the viewport center.
	x := float64(s.viewportSize.Width) / 2
	y := float64(s.viewportSize.Height) / 2
	if ev.Index != nil {
		handle, err := s.elementByIndex(ctx, *ev.Index)
		if err != nil {
			return nil, err
		}
		x, y, err = s.nodeCenter(ctx, handle.BackendID)
		if err != nil {
			return nil, schemas.NewBrowserError(fmt.Sprintf("Element %d has no visible box to scroll: %v", *ev.Index, err))
		}
	}

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, x, y).
			WithDeltaX(float64(ev.Delta.X)).
			WithDeltaY(float64(ev.Delta.Y)).
			Do(ctx)
	}))
	if err != nil {
		return nil, fmt.Errorf("dispatching scroll: %w", err)
	}
	return nil, nil
}

func (s *Session) sendKeys(ctx context.Context, ev schemas.SendKeysEvent) (json.RawMessage, error) {
	var action chromedp.Action
	if chord, ok := parseKeySequence(ev.Keys); ok {
		action = chromedp.KeyEvent(chord.Key, chromedp.KeyModifiers(input.Modifier(chord.Modifiers)))
	} else {
		action = chromedp.KeyEvent(ev.Keys)
	}
	if err := chromedp.Run(ctx, action); err != nil {
		return nil, fmt.Errorf("sending keys: %w", err)
	}
	return nil, nil
}

// callOnNode resolves a node to a JS object, invokes fn on it with args,
// and optionally decodes the returned value into result.
func (s *Session) callOnNode(ctx context.Context, id schemas.BackendNodeID, fn string, args []any, result *json.RawMessage) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := cdpdom.ResolveNode().WithBackendNodeID(cdp.BackendNodeID(id)).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolving node: %w", err)
		}
		defer func() {
			_ = runtime.ReleaseObject(obj.ObjectID).Do(ctx)
		}()

		call := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true)
		if len(args) > 0 {
			callArgs := make([]*runtime.CallArgument, len(args))
			for i, a := range args {
				encoded, err := json.Marshal(a)
				if err != nil {
					return fmt.Errorf("encoding call argument: %w", err)
				}
				callArgs[i] = &runtime.CallArgument{Value: encoded}
			}
			call = call.WithArguments(callArgs)
		}

		value, exc, err := call.Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return schemas.NewBrowserErrorWithDetail(
				fmt.Sprintf("Script failed: %s", exceptionText(exc)),
				"Fix the script and try again.",
			)
		}
		if result != nil && value != nil && value.Value != nil {
			*result = json.RawMessage(value.Value)
		}
		return nil
	}))
}

// -- Key sequence parsing --

// keyNames maps agent-facing key names to the runes the keyboard encoder
// understands.
var keyNames = map[string]string{
	"enter":      kb.Enter,
	"return":     kb.Enter,
	"tab":        kb.Tab,
	"escape":     kb.Escape,
	"esc":        kb.Escape,
	"backspace":  kb.Backspace,
	"delete":     kb.Delete,
	"del":        kb.Delete,
	"arrowup":    kb.ArrowUp,
	"up":         kb.ArrowUp,
	"arrowdown":  kb.ArrowDown,
	"down":       kb.ArrowDown,
	"arrowleft":  kb.ArrowLeft,
	"left":       kb.ArrowLeft,
	"arrowright": kb.ArrowRight,
	"right":      kb.ArrowRight,
	"home":       kb.Home,
	"end":        kb.End,
	"pageup":     kb.PageUp,
	"pagedown":   kb.PageDown,
	"space":      " ",
}

var modifierNames = map[string]schemas.KeyModifier{
	"control": schemas.ModCtrl,
	"ctrl":    schemas.ModCtrl,
	"alt":     schemas.ModAlt,
	"option":  schemas.ModAlt,
	"shift":   schemas.ModShift,
	"meta":    schemas.ModMeta,
	"cmd":     schemas.ModMeta,
	"command": schemas.ModMeta,
}

// parseKeySequence interprets an agent key string. "Control+a" becomes a
// modified chord and "Enter" a named key; anything unrecognized reports
// false and is typed literally.
func parseKeySequence(raw string) (schemas.KeyEventData, bool) {
	parts := strings.Split(raw, "+")

	mods := schemas.ModNone
	for _, part := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return schemas.KeyEventData{}, false
		}
		mods |= m
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if named, ok := keyNames[strings.ToLower(last)]; ok {
		return schemas.KeyEventData{Key: named, Modifiers: mods}, true
	}
	if mods != schemas.ModNone && last != "" {
		return schemas.KeyEventData{Key: last, Modifiers: mods}, true
	}
	return schemas.KeyEventData{}, false
}
