package schemas

import (
	"fmt"
	"net/url"
	"strings"
)

// -- Action Request Schemas --

// ActionRequest is a single decision produced by the agent. Exactly one of
// its fields is expected to be populated; each field names a registered
// action and carries that action's typed parameters. Producers that populate
// more than one field get the first populated field (in declaration order)
// executed and the rest ignored.
type ActionRequest struct {
	Done                 *DoneParams                 `json:"done,omitempty"`
	Navigate             *NavigateParams             `json:"navigate,omitempty"`
	GoBack               *GoBackParams               `json:"go_back,omitempty"`
	Wait                 *WaitParams                 `json:"wait,omitempty"`
	Click                *ClickParams                `json:"click,omitempty"`
	InputText            *InputTextParams            `json:"input_text,omitempty"`
	Scroll               *ScrollParams               `json:"scroll,omitempty"`
	SendKeys             *SendKeysParams             `json:"send_keys,omitempty"`
	ScrollToText         *ScrollToTextParams         `json:"scroll_to_text,omitempty"`
	GetDropdownOptions   *GetDropdownOptionsParams   `json:"get_dropdown_options,omitempty"`
	SelectDropdownOption *SelectDropdownOptionParams `json:"select_dropdown_option,omitempty"`
	UploadFile           *UploadFileParams           `json:"upload_file,omitempty"`
	Extract              *ExtractParams              `json:"extract,omitempty"`
	Screenshot           *ScreenshotParams           `json:"screenshot,omitempty"`
	Evaluate             *EvaluateParams             `json:"evaluate,omitempty"`
	WriteFile            *WriteFileParams            `json:"write_file,omitempty"`
	ReadFile             *ReadFileParams             `json:"read_file,omitempty"`
	ReplaceFileStr       *ReplaceFileStrParams       `json:"replace_file_str,omitempty"`
}

// First returns the name and parameters of the first populated action field,
// scanning in declaration order. It returns ("", nil) for an empty request.
func (r *ActionRequest) First() (string, ActionParams) {
	if r == nil {
		return "", nil
	}
	switch {
	case r.Done != nil:
		return ActionDone, r.Done
	case r.Navigate != nil:
		return ActionNavigate, r.Navigate
	case r.GoBack != nil:
		return ActionGoBack, r.GoBack
	case r.Wait != nil:
		return ActionWait, r.Wait
	case r.Click != nil:
		return ActionClick, r.Click
	case r.InputText != nil:
		return ActionInputText, r.InputText
	case r.Scroll != nil:
		return ActionScroll, r.Scroll
	case r.SendKeys != nil:
		return ActionSendKeys, r.SendKeys
	case r.ScrollToText != nil:
		return ActionScrollToText, r.ScrollToText
	case r.GetDropdownOptions != nil:
		return ActionGetDropdownOptions, r.GetDropdownOptions
	case r.SelectDropdownOption != nil:
		return ActionSelectDropdownOption, r.SelectDropdownOption
	case r.UploadFile != nil:
		return ActionUploadFile, r.UploadFile
	case r.Extract != nil:
		return ActionExtract, r.Extract
	case r.Screenshot != nil:
		return ActionScreenshot, r.Screenshot
	case r.Evaluate != nil:
		return ActionEvaluate, r.Evaluate
	case r.WriteFile != nil:
		return ActionWriteFile, r.WriteFile
	case r.ReadFile != nil:
		return ActionReadFile, r.ReadFile
	case r.ReplaceFileStr != nil:
		return ActionReplaceFileStr, r.ReplaceFileStr
	}
	return "", nil
}

// Action names as they appear in the registry and in ActionRequest JSON keys.
const (
	ActionDone                 = "done"
	ActionNavigate             = "navigate"
	ActionGoBack               = "go_back"
	ActionWait                 = "wait"
	ActionClick                = "click"
	ActionInputText            = "input_text"
	ActionScroll               = "scroll"
	ActionSendKeys             = "send_keys"
	ActionScrollToText         = "scroll_to_text"
	ActionGetDropdownOptions   = "get_dropdown_options"
	ActionSelectDropdownOption = "select_dropdown_option"
	ActionUploadFile           = "upload_file"
	ActionExtract              = "extract"
	ActionScreenshot           = "screenshot"
	ActionEvaluate             = "evaluate"
	ActionWriteFile            = "write_file"
	ActionReadFile             = "read_file"
	ActionReplaceFileStr       = "replace_file_str"
)

// ActionParams is implemented by every action parameter struct. Validation
// runs before dispatch; a handler never sees parameters that fail it.
type ActionParams interface {
	Validate() error
}

// -- Action Parameter Schemas --

// DoneParams signals task completion.
type DoneParams struct {
	// Text is the final answer or summary handed back to the caller.
	Text string `json:"text"`
	// Success reports whether the task was completed successfully.
	Success bool `json:"success"`
	// FilesToDisplay optionally names agent files to surface with the answer.
	FilesToDisplay []string `json:"files_to_display,omitempty"`
}

func (p *DoneParams) Validate() error { return nil }

// NavigateParams loads a URL in the session's tab.
type NavigateParams struct {
	URL string `json:"url"`
}

func (p *NavigateParams) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("url must not be empty")
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", p.URL, err)
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "about" && u.Scheme != "file" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	return nil
}

// GoBackParams navigates one entry back in session history.
type GoBackParams struct{}

func (p *GoBackParams) Validate() error { return nil }

// WaitParams pauses execution for a number of seconds.
type WaitParams struct {
	Seconds int `json:"seconds"`
}

// MaxWaitSeconds caps a single wait action so a confused agent cannot
// stall the loop indefinitely.
const MaxWaitSeconds = 30

func (p *WaitParams) Validate() error {
	if p.Seconds < 0 {
		return fmt.Errorf("seconds must not be negative, got %d", p.Seconds)
	}
	if p.Seconds > MaxWaitSeconds {
		return fmt.Errorf("seconds must not exceed %d, got %d", MaxWaitSeconds, p.Seconds)
	}
	return nil
}

// ClickParams clicks an element. The target is addressed either by its
// interactive-element index or by a coordinate pair in the agent's frame,
// never both.
type ClickParams struct {
	Index *int   `json:"index,omitempty"`
	X     *int64 `json:"x,omitempty"`
	Y     *int64 `json:"y,omitempty"`
}

func (p *ClickParams) Validate() error {
	byIndex := p.Index != nil
	byPoint := p.X != nil || p.Y != nil
	switch {
	case byIndex && byPoint:
		return fmt.Errorf("index and coordinates are mutually exclusive")
	case byIndex:
		if *p.Index < 0 {
			return fmt.Errorf("index must not be negative, got %d", *p.Index)
		}
	case byPoint:
		if p.X == nil || p.Y == nil {
			return fmt.Errorf("both x and y are required for a coordinate click")
		}
	default:
		return fmt.Errorf("either index or x/y coordinates are required")
	}
	return nil
}

// Target reports the requested addressing mode as a NodeTarget.
func (p *ClickParams) Target() NodeTarget {
	if p.Index != nil {
		return NodeTarget{Index: p.Index}
	}
	return NodeTarget{Point: &Point{X: *p.X, Y: *p.Y}}
}

// InputTextParams types text into the element at the given index.
type InputTextParams struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	// Clear wipes the element's existing value before typing.
	Clear bool `json:"clear,omitempty"`
}

func (p *InputTextParams) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("index must not be negative, got %d", p.Index)
	}
	return nil
}

// ScrollParams scrolls the page, or a specific scroll container when Index
// is set. Deltas are expressed in the agent's frame and may be negative.
type ScrollParams struct {
	DeltaX int64 `json:"delta_x,omitempty"`
	DeltaY int64 `json:"delta_y"`
	Index  *int  `json:"index,omitempty"`
}

func (p *ScrollParams) Validate() error {
	if p.DeltaX == 0 && p.DeltaY == 0 {
		return fmt.Errorf("at least one of delta_x, delta_y must be non-zero")
	}
	if p.Index != nil && *p.Index < 0 {
		return fmt.Errorf("index must not be negative, got %d", *p.Index)
	}
	return nil
}

// SendKeysParams dispatches keyboard input to the focused element. Keys is
// either literal text or a chord like "Control+a" or "Enter".
type SendKeysParams struct {
	Keys string `json:"keys"`
}

func (p *SendKeysParams) Validate() error {
	if p.Keys == "" {
		return fmt.Errorf("keys must not be empty")
	}
	return nil
}

// ScrollToTextParams scrolls the first occurrence of Text into view.
type ScrollToTextParams struct {
	Text string `json:"text"`
}

func (p *ScrollToTextParams) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("text must not be empty")
	}
	return nil
}

// GetDropdownOptionsParams lists the options of the <select> at Index.
type GetDropdownOptionsParams struct {
	Index int `json:"index"`
}

func (p *GetDropdownOptionsParams) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("index must not be negative, got %d", p.Index)
	}
	return nil
}

// SelectDropdownOptionParams selects the option whose visible label matches
// Text in the <select> at Index.
type SelectDropdownOptionParams struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func (p *SelectDropdownOptionParams) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("index must not be negative, got %d", p.Index)
	}
	if p.Text == "" {
		return fmt.Errorf("text must not be empty")
	}
	return nil
}

// UploadFileParams attaches a file to the file input nearest the element at
// Index. The element itself is often a styled button or label; the real
// input is located by proximity search.
type UploadFileParams struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
}

func (p *UploadFileParams) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("index must not be negative, got %d", p.Index)
	}
	if strings.TrimSpace(p.Path) == "" {
		return fmt.Errorf("path must not be empty")
	}
	return nil
}

// ExtractParams asks the extraction model a question about the current page.
type ExtractParams struct {
	Query string `json:"query"`
	// ExtractLinks keeps anchor targets in the page text handed to the model.
	ExtractLinks bool `json:"extract_links,omitempty"`
}

func (p *ExtractParams) Validate() error {
	if strings.TrimSpace(p.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	return nil
}

// ScreenshotParams captures the current viewport, downscaled to the agent's
// frame width.
type ScreenshotParams struct {
	FullPage bool `json:"full_page,omitempty"`
}

func (p *ScreenshotParams) Validate() error { return nil }

// EvaluateParams runs a JavaScript snippet in the page and returns its
// JSON-serialized result. The snippet passes through escape repair first.
type EvaluateParams struct {
	Script string `json:"script"`
}

func (p *EvaluateParams) Validate() error {
	if strings.TrimSpace(p.Script) == "" {
		return fmt.Errorf("script must not be empty")
	}
	return nil
}

// WriteFileParams writes Content to the named file in the agent's sandbox.
type WriteFileParams struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
	Append   bool   `json:"append,omitempty"`
}

func (p *WriteFileParams) Validate() error {
	if strings.TrimSpace(p.FileName) == "" {
		return fmt.Errorf("file_name must not be empty")
	}
	return nil
}

// ReadFileParams reads the named file from the agent's sandbox.
type ReadFileParams struct {
	FileName string `json:"file_name"`
}

func (p *ReadFileParams) Validate() error {
	if strings.TrimSpace(p.FileName) == "" {
		return fmt.Errorf("file_name must not be empty")
	}
	return nil
}

// ReplaceFileStrParams replaces every occurrence of OldStr with NewStr in
// the named sandbox file.
type ReplaceFileStrParams struct {
	FileName string `json:"file_name"`
	OldStr   string `json:"old_str"`
	NewStr   string `json:"new_str"`
}

func (p *ReplaceFileStrParams) Validate() error {
	if strings.TrimSpace(p.FileName) == "" {
		return fmt.Errorf("file_name must not be empty")
	}
	if p.OldStr == "" {
		return fmt.Errorf("old_str must not be empty")
	}
	return nil
}
