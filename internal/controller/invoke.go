// internal/controller/invoke.go
package controller

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/json-iterator/go"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// Direct invocation lets code paths that already know which action they
// want (tests, the CLI, composite handlers) skip request construction.
// The name-to-field mapping is spelled out as a literal table; a new
// action is not invocable by name until a setter is added here, and that
// is deliberate.

// paramSetter decodes raw parameters and populates its field on req.
type paramSetter func(req *schemas.ActionRequest, raw []byte) error

// requestSetters maps every invocable action name to its request field.
var requestSetters = map[string]paramSetter{
	schemas.ActionDone: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.DoneParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Done = p
		return nil
	},
	schemas.ActionNavigate: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.NavigateParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Navigate = p
		return nil
	},
	schemas.ActionGoBack: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.GoBackParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.GoBack = p
		return nil
	},
	schemas.ActionWait: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.WaitParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Wait = p
		return nil
	},
	schemas.ActionClick: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ClickParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Click = p
		return nil
	},
	schemas.ActionInputText: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.InputTextParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.InputText = p
		return nil
	},
	schemas.ActionScroll: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ScrollParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Scroll = p
		return nil
	},
	schemas.ActionSendKeys: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.SendKeysParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.SendKeys = p
		return nil
	},
	schemas.ActionScrollToText: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ScrollToTextParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.ScrollToText = p
		return nil
	},
	schemas.ActionGetDropdownOptions: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.GetDropdownOptionsParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.GetDropdownOptions = p
		return nil
	},
	schemas.ActionSelectDropdownOption: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.SelectDropdownOptionParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.SelectDropdownOption = p
		return nil
	},
	schemas.ActionUploadFile: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.UploadFileParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.UploadFile = p
		return nil
	},
	schemas.ActionExtract: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ExtractParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Extract = p
		return nil
	},
	schemas.ActionScreenshot: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ScreenshotParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Screenshot = p
		return nil
	},
	schemas.ActionEvaluate: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.EvaluateParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.Evaluate = p
		return nil
	},
	schemas.ActionWriteFile: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.WriteFileParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.WriteFile = p
		return nil
	},
	schemas.ActionReadFile: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ReadFileParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.ReadFile = p
		return nil
	},
	schemas.ActionReplaceFileStr: func(r *schemas.ActionRequest, raw []byte) error {
		p := &schemas.ReplaceFileStrParams{}
		if err := decodeStrict(raw, p); err != nil {
			return err
		}
		r.ReplaceFileStr = p
		return nil
	},
}

// InvokeNamed builds a single-action request from a name and raw JSON
// parameters and routes it through Act, so direct calls get the same
// validation, recovery, and redaction as agent-driven ones. Empty raw
// parameters mean "all defaults".
func (c *Controller) InvokeNamed(ctx context.Context, name string, raw []byte, deps Deps) (*schemas.ActionResult, error) {
	set, ok := requestSetters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	req := &schemas.ActionRequest{}
	if err := set(req, raw); err != nil {
		return nil, fmt.Errorf("invalid parameters for %q: %w", name, err)
	}
	return c.Act(ctx, req, deps)
}

// DecodeActionRequest parses a model-produced action request, rejecting
// unknown fields so a hallucinated action name fails here instead of
// silently producing an empty request.
func DecodeActionRequest(raw []byte) (*schemas.ActionRequest, error) {
	req := &schemas.ActionRequest{}
	if err := decodeStrict(raw, req); err != nil {
		return nil, fmt.Errorf("decoding action request: %w", err)
	}
	return req, nil
}

func decodeStrict(raw []byte, into any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(into)
}
