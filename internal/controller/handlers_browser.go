// internal/controller/handlers_browser.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
	"github.com/wheelhouse-ai/wheelhouse/internal/browser/coords"
	"github.com/wheelhouse-ai/wheelhouse/internal/browser/domsearch"
)

func handleNavigate(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.NavigateParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	url := p.URL
	if !strings.Contains(url, "://") && !strings.HasPrefix(url, "about:") {
		url = "https://" + url
	}
	if _, err := inv.Deps.Session.Dispatch(ctx, schemas.NavigateEvent{URL: url}); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Navigated to %s", url), nil
}

func handleGoBack(ctx context.Context, inv Invocation) (any, error) {
	if _, err := inv.Deps.Session.Dispatch(ctx, schemas.GoBackEvent{}); err != nil {
		return nil, err
	}
	return "Navigated back.", nil
}

func handleClick(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ClickParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	session := inv.Deps.Session

	if p.Index != nil {
		node, err := session.NodeByIndex(ctx, *p.Index)
		if err != nil {
			return nil, err
		}
		if err := refuseSelectClick(node, *p.Index); err != nil {
			return nil, err
		}
		if _, err := session.Dispatch(ctx, schemas.ClickEvent{Target: p.Target()}); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Clicked element with index %d.", *p.Index), nil
	}

	agent, viewport := session.FrameSizes()
	vp := coords.ToViewport(schemas.Point{X: *p.X, Y: *p.Y}, agent, viewport)

	// Best effort: resolving the node under the point lets us refuse
	// <select> clicks here too, but a miss must not stop the click.
	if node, err := session.ElementAt(ctx, vp); err != nil {
		inv.Log.Debug("Could not resolve element under click point.",
			zap.Int64("x", vp.X), zap.Int64("y", vp.Y), zap.Error(err))
	} else if err := refuseSelectClick(node, -1); err != nil {
		return nil, err
	}

	session.Highlight(vp)
	target := schemas.NodeTarget{Point: &vp}
	if _, err := session.Dispatch(ctx, schemas.ClickEvent{Target: target}); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Clicked at (%d, %d).", *p.X, *p.Y), nil
}

// refuseSelectClick turns a click on a <select> into guidance toward the
// dropdown actions, which actually work.
func refuseSelectClick(node *schemas.NodeHandle, index int) error {
	if node == nil || node.Tag != "select" {
		return nil
	}
	subject := "This element"
	if index >= 0 {
		subject = fmt.Sprintf("Element %d", index)
	}
	return schemas.NewBrowserErrorWithDetail(
		fmt.Sprintf("%s is a <select> dropdown; clicking it does not open native option lists.", subject),
		"Use get_dropdown_options to read its options and select_dropdown_option to pick one.")
}

func handleInputText(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.InputTextParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	text := substituteSecrets(p.Text, inv.Deps.SensitiveData)
	ev := schemas.TypeTextEvent{Index: p.Index, Text: text, Clear: p.Clear}
	if _, err := inv.Deps.Session.Dispatch(ctx, ev); err != nil {
		return nil, err
	}
	// The raw text may hold a substituted secret; the boundary redacts it
	// from this message before anything sees it.
	return fmt.Sprintf("Typed %q into element %d.", text, p.Index), nil
}

func handleScroll(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ScrollParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	session := inv.Deps.Session
	agent, viewport := session.FrameSizes()
	delta := coords.ScaleDelta(schemas.Point{X: p.DeltaX, Y: p.DeltaY}, agent, viewport)

	if _, err := session.Dispatch(ctx, schemas.ScrollEvent{Delta: delta, Index: p.Index}); err != nil {
		return nil, err
	}

	direction := "down"
	if delta.Y < 0 {
		direction = "up"
	}
	scope := "the page"
	if p.Index != nil {
		scope = fmt.Sprintf("element %d", *p.Index)
	}
	return fmt.Sprintf("Scrolled %s %s by %d pixels.", scope, direction, abs64(delta.Y)), nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func handleSendKeys(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.SendKeysParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	if _, err := inv.Deps.Session.Dispatch(ctx, schemas.SendKeysEvent{Keys: p.Keys}); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Sent keys: %s", p.Keys), nil
}

func handleScrollToText(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ScrollToTextParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	payload, err := inv.Deps.Session.Dispatch(ctx, schemas.ScrollToTextEvent{Text: p.Text})
	if err != nil {
		return nil, err
	}
	var outcome struct {
		Found bool `json:"found"`
	}
	if err := json.Unmarshal(payload, &outcome); err != nil {
		return nil, fmt.Errorf("decoding scroll_to_text payload: %w", err)
	}
	if !outcome.Found {
		return nil, schemas.NewBrowserError(fmt.Sprintf("Text %q not found on the current page.", p.Text))
	}
	return fmt.Sprintf("Scrolled to text %q.", p.Text), nil
}

// dropdownOption mirrors the payload of DropdownOptionsEvent.
type dropdownOption struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

func handleGetDropdownOptions(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.GetDropdownOptionsParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	session := inv.Deps.Session

	if err := requireSelect(ctx, session, p.Index); err != nil {
		return nil, err
	}
	payload, err := session.Dispatch(ctx, schemas.DropdownOptionsEvent{Index: p.Index})
	if err != nil {
		return nil, err
	}
	var out struct {
		Options []dropdownOption `json:"options"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decoding dropdown options payload: %w", err)
	}
	if len(out.Options) == 0 {
		return nil, schemas.NewBrowserError(fmt.Sprintf("Element %d has no options.", p.Index))
	}

	var b strings.Builder
	for _, opt := range out.Options {
		fmt.Fprintf(&b, "%d: %s\n", opt.Index, opt.Text)
	}
	b.WriteString("Use the exact option text with select_dropdown_option.")
	return &schemas.ActionResult{
		Content: b.String(),
		Memory:  fmt.Sprintf("Found %d options for element %d.", len(out.Options), p.Index),
	}, nil
}

func handleSelectDropdownOption(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.SelectDropdownOptionParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	session := inv.Deps.Session

	if err := requireSelect(ctx, session, p.Index); err != nil {
		return nil, err
	}
	payload, err := session.Dispatch(ctx, schemas.SelectOptionEvent{Index: p.Index, Text: p.Text})
	if err != nil {
		return nil, err
	}
	var out struct {
		Selected string `json:"selected"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decoding select option payload: %w", err)
	}
	return fmt.Sprintf("Selected option %q in element %d.", out.Selected, p.Index), nil
}

// requireSelect verifies the element at index is a <select>, steering the
// agent away from using dropdown actions on anything else.
func requireSelect(ctx context.Context, session schemas.BrowserSession, index int) error {
	node, err := session.NodeByIndex(ctx, index)
	if err != nil {
		return err
	}
	if node.Tag != "select" {
		return schemas.NewBrowserErrorWithDetail(
			fmt.Sprintf("Element %d is a <%s>, not a <select> dropdown.", index, node.Tag),
			"Dropdown actions only work on native <select> elements.")
	}
	return nil
}

func handleUploadFile(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.UploadFileParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	session := inv.Deps.Session

	if allowed := inv.Deps.AllowedUploadPaths; allowed != nil && !slices.Contains(allowed, p.Path) {
		return nil, schemas.NewBrowserError(
			fmt.Sprintf("File path %q is not in the allowed upload list.", p.Path))
	}

	start, err := session.NodeByIndex(ctx, p.Index)
	if err != nil {
		return nil, err
	}

	finder := domsearch.NewFinder(session.DOM(), inv.Log)
	input, err := finder.FindFileInput(ctx, start)
	if err != nil {
		if errors.Is(err, domsearch.ErrNoFileInput) {
			return nil, schemas.NewBrowserErrorWithDetail(
				fmt.Sprintf("No file upload element found near element %d.", p.Index),
				"The element may not accept uploads; look for a dedicated upload control.")
		}
		return nil, err
	}

	ev := schemas.UploadFileEvent{BackendID: input.BackendID, Path: p.Path}
	if _, err := session.Dispatch(ctx, ev); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Uploaded %s to the file input near element %d.", p.Path, p.Index), nil
}
