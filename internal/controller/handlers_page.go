// internal/controller/handlers_page.go
package controller

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
	"github.com/wheelhouse-ai/wheelhouse/internal/browser/domtext"
	"github.com/wheelhouse-ai/wheelhouse/internal/browser/jsrepair"
)

// inlineExtractBudget is the largest extraction answer that is returned
// inline; longer answers are persisted to the sandbox and shown once.
const inlineExtractBudget = 1000

const extractSystemPrompt = `You extract information from web page text.
Answer the query using only the provided page content. Quote exact values
where you can. If the page does not contain the answer, say so plainly
instead of guessing.`

func handleExtract(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ExtractParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}

	payload, err := inv.Deps.Session.Dispatch(ctx, schemas.CaptureHTMLEvent{})
	if err != nil {
		return nil, err
	}
	var page struct {
		HTML string `json:"html"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, fmt.Errorf("decoding capture_html payload: %w", err)
	}

	text, err := domtext.Reduce(page.HTML, domtext.Options{IncludeLinks: p.ExtractLinks})
	if err != nil {
		return nil, fmt.Errorf("reducing page content: %w", err)
	}

	answer, err := inv.Deps.LLM.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: extractSystemPrompt,
		UserPrompt:   fmt.Sprintf("Query: %s\n\nPage URL: %s\n\nPage text:\n%s", p.Query, page.URL, text),
		Tier:         schemas.TierFast,
		Options:      schemas.GenerationOptions{Temperature: 0.1},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction model: %w", err)
	}
	answer = strings.TrimSpace(answer)

	if len(answer) <= inlineExtractBudget {
		return &schemas.ActionResult{
			Content: answer,
			Memory:  fmt.Sprintf("Extracted content from %s for query %q.", page.URL, p.Query),
		}, nil
	}

	// Long answers are shown exactly once and kept on disk; the durable
	// memory only records where they went.
	name, err := inv.Deps.Files.SaveExtracted(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("saving extracted content: %w", err)
	}
	return &schemas.ActionResult{
		Transient:   answer,
		Memory:      fmt.Sprintf("Extracted content from %s for query %q, saved to %s.", page.URL, p.Query, name),
		Attachments: []string{name},
	}, nil
}

func handleScreenshot(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ScreenshotParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}

	payload, err := inv.Deps.Session.Dispatch(ctx, schemas.ScreenshotEvent{FullPage: p.FullPage})
	if err != nil {
		return nil, err
	}
	var shot struct {
		Data   string `json:"data"`
		Width  int64  `json:"width"`
		Height int64  `json:"height"`
	}
	if err := json.Unmarshal(payload, &shot); err != nil {
		return nil, fmt.Errorf("decoding screenshot payload: %w", err)
	}
	png, err := base64.StdEncoding.DecodeString(shot.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot image data: %w", err)
	}

	name := fmt.Sprintf("screenshot_%s.png", uuid.NewString()[:8])
	if err := inv.Deps.Files.Write(ctx, name, string(png)); err != nil {
		return nil, fmt.Errorf("saving screenshot: %w", err)
	}
	return &schemas.ActionResult{
		Content:     fmt.Sprintf("Captured a %dx%d screenshot to %s.", shot.Width, shot.Height, name),
		Attachments: []string{name},
		Metadata: map[string]any{
			"width":     shot.Width,
			"height":    shot.Height,
			"full_page": p.FullPage,
		},
	}, nil
}

func handleEvaluate(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.EvaluateParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}

	script := jsrepair.Repair(p.Script)
	payload, err := inv.Deps.Session.Dispatch(ctx, schemas.EvaluateEvent{Script: script})
	if err != nil {
		return nil, err
	}

	value := strings.TrimSpace(string(payload))
	if value == "" {
		value = "null"
	}
	res := &schemas.ActionResult{Content: fmt.Sprintf("Result: %s", value)}
	if script != p.Script {
		res.Metadata = map[string]any{"script_repaired": true}
	}
	return res, nil
}
