// internal/controller/handlers_core.go
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func handleDone(_ context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.DoneParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	success := p.Success
	return &schemas.ActionResult{
		Done:        true,
		Success:     &success,
		Content:     p.Text,
		Attachments: p.FilesToDisplay,
	}, nil
}

func handleWait(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.WaitParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	seconds := p.Seconds
	if seconds == 0 {
		seconds = 3
	}
	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return fmt.Sprintf("Waited for %d seconds.", seconds), nil
}
