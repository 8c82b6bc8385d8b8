// internal/browser/cdpsession/protocol.go
package cdpsession

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// protocolChannel sends raw protocol commands on the session's target. No
// validation or classification happens here: faults propagate exactly as
// the protocol layer reports them.
type protocolChannel struct {
	session *Session
}

var _ schemas.ProtocolSession = (*protocolChannel)(nil)

func (p *protocolChannel) Send(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if method == "" {
		return nil, fmt.Errorf("protocol method is required")
	}

	runCtx, cancel := p.session.runCtx(ctx, p.session.cfg.ActionTimeout)
	defer cancel()

	var result jsontext.Value
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var sendParams any
		if len(params) > 0 {
			sendParams = params
		}
		return cdp.Execute(ctx, method, sendParams, &result)
	}))
	if err != nil {
		return nil, callerErr(ctx, err)
	}
	return json.RawMessage(result), nil
}
