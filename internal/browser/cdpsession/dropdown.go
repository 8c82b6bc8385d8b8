// internal/browser/cdpsession/dropdown.go
package cdpsession

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

type dropdownOption struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

const listOptionsScript = `function() {
	return Array.from(this.options).map(function(opt, i) {
		return {index: i, text: opt.text.trim(), value: opt.value};
	});
}`

const selectOptionScript = `function(text) {
	const match = Array.from(this.options).find(function(opt) {
		return opt.text.trim() === text;
	});
	if (!match) {
		return null;
	}
	this.value = match.value;
	this.dispatchEvent(new Event('change', {bubbles: true}));
	return match.text.trim();
}`

func (s *Session) dropdownOptions(ctx context.Context, ev schemas.DropdownOptionsEvent) (json.RawMessage, error) {
	handle, err := s.selectByIndex(ctx, ev.Index)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.callOnNode(ctx, handle.BackendID, listOptionsScript, nil, &raw); err != nil {
		return nil, fmt.Errorf("reading dropdown %d options: %w", ev.Index, err)
	}

	options := []dropdownOption{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &options); err != nil {
			return nil, fmt.Errorf("decoding dropdown %d options: %w", ev.Index, err)
		}
	}
	return marshalPayload(map[string]any{"options": options})
}

func (s *Session) selectOption(ctx context.Context, ev schemas.SelectOptionEvent) (json.RawMessage, error) {
	handle, err := s.selectByIndex(ctx, ev.Index)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.callOnNode(ctx, handle.BackendID, selectOptionScript, []any{ev.Text}, &raw); err != nil {
		return nil, fmt.Errorf("selecting option in dropdown %d: %w", ev.Index, err)
	}

	var selected *string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &selected); err != nil {
			return nil, fmt.Errorf("decoding dropdown %d selection: %w", ev.Index, err)
		}
	}
	if selected == nil {
		return nil, schemas.NewBrowserErrorWithDetail(
			fmt.Sprintf("Option %q was not found in dropdown %d.", ev.Text, ev.Index),
			"List the dropdown options first to see what is available.",
		)
	}
	return marshalPayload(map[string]any{"selected": *selected})
}

// selectByIndex resolves an element index and confirms it is a <select>.
func (s *Session) selectByIndex(ctx context.Context, index int) (schemas.NodeHandle, error) {
	handle, err := s.elementByIndex(ctx, index)
	if err != nil {
		return schemas.NodeHandle{}, err
	}
	if handle.Tag != "select" {
		return schemas.NodeHandle{}, schemas.NewBrowserError(
			fmt.Sprintf("Element %d is a <%s>, not a <select> dropdown.", index, handle.Tag),
		)
	}
	return handle, nil
}

func (s *Session) uploadFile(ctx context.Context, ev schemas.UploadFileEvent) (json.RawMessage, error) {
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdpdom.SetFileInputFiles([]string{ev.Path}).
			WithBackendNodeID(cdp.BackendNodeID(ev.BackendID)).
			Do(ctx)
	}))
	if err != nil {
		return nil, schemas.NewBrowserError(fmt.Sprintf("Setting the file on the input failed: %v", err))
	}
	return nil, nil
}
