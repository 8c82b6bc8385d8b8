// internal/browser/cdpsession/page.go
package cdpsession

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func (s *Session) navigate(ctx context.Context, ev schemas.NavigateEvent) (json.RawMessage, error) {
	if err := chromedp.Run(ctx, chromedp.Navigate(ev.URL)); err != nil {
		if strings.Contains(err.Error(), "net::ERR") {
			return nil, schemas.NewBrowserError(fmt.Sprintf("Navigation to %s failed: %v", ev.URL, err))
		}
		return nil, err
	}
	s.invalidateElements()
	return nil, nil
}

func (s *Session) goBack(ctx context.Context) (json.RawMessage, error) {
	if err := chromedp.Run(ctx, chromedp.NavigateBack()); err != nil {
		if strings.Contains(err.Error(), "nothing to navigate") || strings.Contains(err.Error(), "no history entry") {
			return nil, schemas.NewBrowserError("No previous page in the session history.")
		}
		return nil, err
	}
	s.invalidateElements()
	return nil, nil
}

// captureHTML serializes the current document together with its URL and
// refreshes the interactive-element map, since a capture is the moment the
// agent observes the page.
func (s *Session) captureHTML(ctx context.Context) (json.RawMessage, error) {
	var html, url string
	err := chromedp.Run(ctx,
		chromedp.Location(&url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			root, err := cdpdom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = cdpdom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("capturing page HTML: %w", err)
	}

	if err := s.rebuildElements(ctx); err != nil {
		s.logger.Warn("Could not rebuild the element map after capture.", zap.Error(err))
	}

	return marshalPayload(map[string]any{"html": html, "url": url})
}

// evaluate runs a script in the page. A thrown exception is the agent's
// mistake and comes back as a recoverable fault, not an infrastructure
// error.
func (s *Session) evaluate(ctx context.Context, ev schemas.EvaluateEvent) (json.RawMessage, error) {
	var result json.RawMessage
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, exc, err := runtime.Evaluate(ev.Script).
			WithReturnByValue(true).
			WithAwaitPromise(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return schemas.NewBrowserErrorWithDetail(
				fmt.Sprintf("Script failed: %s", exceptionText(exc)),
				"Fix the script and try again.",
			)
		}
		if obj != nil && obj.Value != nil {
			result = json.RawMessage(obj.Value)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// exceptionText flattens CDP exception details into a single line.
func exceptionText(exc *runtime.ExceptionDetails) string {
	if exc.Exception != nil && exc.Exception.Description != "" {
		return exc.Exception.Description
	}
	return exc.Text
}

// scrollToTextScript walks visible text nodes and scrolls the first match
// into view. Returns {"found": bool}.
const scrollToTextScript = `(() => {
	const needle = %s;
	const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT, {
		acceptNode: (node) => {
			if (!node.textContent.includes(needle)) return NodeFilter.FILTER_SKIP;
			const el = node.parentElement;
			if (!el) return NodeFilter.FILTER_SKIP;
			const style = window.getComputedStyle(el);
			if (style.display === 'none' || style.visibility === 'hidden') return NodeFilter.FILTER_SKIP;
			return NodeFilter.FILTER_ACCEPT;
		},
	});
	const node = walker.nextNode();
	if (!node) return {found: false};
	node.parentElement.scrollIntoView({behavior: 'instant', block: 'center'});
	return {found: true};
})()`

func (s *Session) scrollToText(ctx context.Context, ev schemas.ScrollToTextEvent) (json.RawMessage, error) {
	needle, err := json.Marshal(ev.Text)
	if err != nil {
		return nil, fmt.Errorf("encoding search text: %w", err)
	}

	var result json.RawMessage
	script := fmt.Sprintf(scrollToTextScript, string(needle))
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &result)); err != nil {
		return nil, fmt.Errorf("scroll to text: %w", err)
	}
	return result, nil
}

// marshalPayload encodes an event payload map.
func marshalPayload(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding event payload: %w", err)
	}
	return data, nil
}
