package schemas

// -- Browser Event Schemas --

// BrowserEvent is a typed instruction dispatched to a browser session. Each
// event maps to one session-level capability; the session returns an
// event-specific JSON payload, or nil when the event produces no data.
type BrowserEvent interface {
	// EventName identifies the event for logging and timeout selection.
	EventName() string
}

// NavigateEvent loads a URL in the session's tab and waits for load.
type NavigateEvent struct {
	URL string `json:"url"`
}

func (NavigateEvent) EventName() string { return "navigate" }

// GoBackEvent moves one entry back in session history.
type GoBackEvent struct{}

func (GoBackEvent) EventName() string { return "go_back" }

// ClickEvent clicks the addressed element. Point coordinates are in real
// viewport pixels; the caller applies the agent-frame transform first.
type ClickEvent struct {
	Target NodeTarget `json:"target"`
}

func (ClickEvent) EventName() string { return "click" }

// TypeTextEvent types text into the element at Index, optionally clearing
// its current value first.
type TypeTextEvent struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Clear bool   `json:"clear"`
}

func (TypeTextEvent) EventName() string { return "type_text" }

// ScrollEvent scrolls the page by Delta viewport pixels, or the scroll
// container at Index when set.
type ScrollEvent struct {
	Delta Point `json:"delta"`
	Index *int  `json:"index,omitempty"`
}

func (ScrollEvent) EventName() string { return "scroll" }

// SendKeysEvent dispatches keyboard input to the focused element.
type SendKeysEvent struct {
	Keys string `json:"keys"`
}

func (SendKeysEvent) EventName() string { return "send_keys" }

// ScrollToTextEvent scrolls the first occurrence of Text into view.
// Payload: {"found": bool}.
type ScrollToTextEvent struct {
	Text string `json:"text"`
}

func (ScrollToTextEvent) EventName() string { return "scroll_to_text" }

// DropdownOptionsEvent lists the options of the <select> at Index.
// Payload: {"options": [{"index": int, "text": string, "value": string}]}.
type DropdownOptionsEvent struct {
	Index int `json:"index"`
}

func (DropdownOptionsEvent) EventName() string { return "dropdown_options" }

// SelectOptionEvent selects the option with visible label Text in the
// <select> at Index. Payload: {"selected": string}.
type SelectOptionEvent struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func (SelectOptionEvent) EventName() string { return "select_option" }

// UploadFileEvent sets Path as the chosen file of the input identified by
// BackendID.
type UploadFileEvent struct {
	BackendID BackendNodeID `json:"backend_id"`
	Path      string        `json:"path"`
}

func (UploadFileEvent) EventName() string { return "upload_file" }

// EvaluateEvent runs a JavaScript expression in the page. Payload: the
// JSON-serialized expression value.
type EvaluateEvent struct {
	Script string `json:"script"`
}

func (EvaluateEvent) EventName() string { return "evaluate" }

// CaptureHTMLEvent returns the serialized document. Payload:
// {"html": string, "url": string}.
type CaptureHTMLEvent struct{}

func (CaptureHTMLEvent) EventName() string { return "capture_html" }

// ScreenshotEvent captures the viewport, downscaled to the agent frame.
// Payload: {"data": base64 PNG, "width": int, "height": int}.
type ScreenshotEvent struct {
	FullPage bool `json:"full_page"`
}

func (ScreenshotEvent) EventName() string { return "screenshot" }
