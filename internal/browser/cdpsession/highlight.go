// internal/browser/cdpsession/highlight.go
package cdpsession

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// highlightScriptTemplate paints a self-removing ring at a viewport point.
// Removal happens in-page, so the Go side needs a single round trip.
const highlightScriptTemplate = `(() => {
	const el = document.createElement('div');
	el.style.cssText = 'position:fixed;left:%dpx;top:%dpx;width:24px;height:24px;' +
		'margin:-12px 0 0 -12px;border:3px solid #ff3b30;border-radius:50%%;' +
		'box-shadow:0 0 8px rgba(255,59,48,0.8);pointer-events:none;z-index:2147483647;';
	document.body.appendChild(el);
	setTimeout(() => el.remove(), %d);
})()`

// Highlight paints a short-lived marker at a real-viewport point. It is
// fire-and-forget: the overlay never blocks or fails the action that
// requested it.
func (s *Session) Highlight(p schemas.Point) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Debug("Highlight overlay panicked.", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(s.tabCtx, s.cfg.ActionTimeout)
		defer cancel()

		script := fmt.Sprintf(highlightScriptTemplate, p.X, p.Y, s.cfg.HighlightDuration.Milliseconds())
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, nil)); err != nil {
			s.logger.Debug("Highlight overlay failed.", zap.Error(err))
		}
	}()
}
