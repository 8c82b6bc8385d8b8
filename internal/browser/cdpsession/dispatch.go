// internal/browser/cdpsession/dispatch.go
package cdpsession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// Dispatch executes a typed browser event and returns its payload.
// Expected browser-layer failures come back as *schemas.BrowserError; the
// command context is bounded by the per-event timeout.
func (s *Session) Dispatch(ctx context.Context, ev schemas.BrowserEvent) (json.RawMessage, error) {
	runCtx, cancel := s.runCtx(ctx, s.timeoutFor(ev))
	defer cancel()

	start := time.Now()
	payload, err := s.execute(runCtx, ev)
	if err != nil {
		err = callerErr(ctx, err)
		s.logger.Debug("Browser event failed.",
			zap.String("event", ev.EventName()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("Browser event handled.",
		zap.String("event", ev.EventName()),
		zap.Duration("duration", time.Since(start)),
	)
	return payload, nil
}

// execute routes an event to its protocol implementation.
func (s *Session) execute(ctx context.Context, ev schemas.BrowserEvent) (json.RawMessage, error) {
	switch e := ev.(type) {
	case schemas.NavigateEvent:
		return s.navigate(ctx, e)
	case schemas.GoBackEvent:
		return s.goBack(ctx)
	case schemas.ClickEvent:
		return s.click(ctx, e)
	case schemas.TypeTextEvent:
		return s.typeText(ctx, e)
	case schemas.ScrollEvent:
		return s.scroll(ctx, e)
	case schemas.SendKeysEvent:
		return s.sendKeys(ctx, e)
	case schemas.ScrollToTextEvent:
		return s.scrollToText(ctx, e)
	case schemas.DropdownOptionsEvent:
		return s.dropdownOptions(ctx, e)
	case schemas.SelectOptionEvent:
		return s.selectOption(ctx, e)
	case schemas.UploadFileEvent:
		return s.uploadFile(ctx, e)
	case schemas.EvaluateEvent:
		return s.evaluate(ctx, e)
	case schemas.CaptureHTMLEvent:
		return s.captureHTML(ctx)
	case schemas.ScreenshotEvent:
		return s.screenshot(ctx, e)
	default:
		return nil, fmt.Errorf("unsupported browser event %q", ev.EventName())
	}
}

// timeoutFor picks the command budget for an event. Navigation waits on
// remote servers and gets the longer budget.
func (s *Session) timeoutFor(ev schemas.BrowserEvent) time.Duration {
	switch ev.(type) {
	case schemas.NavigateEvent, schemas.GoBackEvent:
		return s.cfg.NavigationTimeout
	default:
		return s.cfg.ActionTimeout
	}
}
