// internal/browser/cdpsession/screenshot.go
package cdpsession

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func (s *Session) screenshot(ctx context.Context, ev schemas.ScreenshotEvent) (json.RawMessage, error) {
	var shot []byte
	var viewport schemas.Size

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, _, cssVisual, cssContent, err := page.GetLayoutMetrics().Do(ctx)
		if err != nil {
			return fmt.Errorf("reading layout metrics: %w", err)
		}
		if cssVisual != nil {
			viewport = schemas.Size{
				Width:  int64(cssVisual.ClientWidth),
				Height: int64(cssVisual.ClientHeight),
			}
		}

		capture := page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng)
		if ev.FullPage && cssContent != nil {
			capture = capture.
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  cssContent.Width,
					Height: cssContent.Height,
					Scale:  1,
				}).
				WithCaptureBeyondViewport(true)
		}
		shot, err = capture.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}

	data := shot
	bounds := img.Bounds()
	outW, outH := bounds.Dx(), bounds.Dy()
	if s.cfg.AgentFrameWidth > 0 && outW > s.cfg.AgentFrameWidth {
		resized := imaging.Resize(img, s.cfg.AgentFrameWidth, 0, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encoding agent frame: %w", err)
		}
		data = buf.Bytes()
		rb := resized.Bounds()
		outW, outH = rb.Dx(), rb.Dy()
	}

	// The agent reasons over this frame, so record both sides of the
	// coordinate transform together.
	s.agentSize = schemas.Size{Width: int64(outW), Height: int64(outH)}
	if !viewport.Empty() {
		s.viewportSize = viewport
	}

	if err := s.rebuildElements(ctx); err != nil {
		s.logger.Warn("Could not rebuild the element map after capture.", zap.Error(err))
	}

	return marshalPayload(map[string]any{
		"data":   base64.StdEncoding.EncodeToString(data),
		"width":  outW,
		"height": outH,
	})
}
