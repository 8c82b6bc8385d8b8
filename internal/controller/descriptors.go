// internal/controller/descriptors.go
package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// NewDefaultRegistry builds a registry with the full built-in action set
// registered in their ActionRequest declaration order.
func NewDefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)

	r.mustRegister(Descriptor{
		Name:        schemas.ActionDone,
		Description: "Complete the task. Use when the task is finished or cannot proceed; set success accordingly and put the final answer in text.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "The final answer or summary for the user.",
				},
				"success": map[string]any{
					"type":        "boolean",
					"description": "Whether the task was completed successfully.",
				},
				"files_to_display": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Sandbox files to surface alongside the answer.",
				},
			},
			"required": []string{"text", "success"},
		},
		Handler: handleDone,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionNavigate,
		Description: "Navigate the current tab to a URL. Bare domains get https:// prepended.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL to load.",
				},
			},
			"required": []string{"url"},
		},
		Needs:   NeedSession,
		Handler: handleNavigate,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionGoBack,
		Description: "Go back one entry in the tab's history.",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Needs:   NeedSession,
		Handler: handleGoBack,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionWait,
		Description: fmt.Sprintf("Pause for a number of seconds (default 3, max %d). Useful while a page finishes loading.", schemas.MaxWaitSeconds),
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"seconds": map[string]any{
					"type":        "integer",
					"description": "Seconds to wait.",
				},
			},
		},
		Handler: handleWait,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionClick,
		Description: "Click an element by its interactive index, or a point by x/y coordinates. Index and coordinates are mutually exclusive. Do not click <select> dropdowns; use the dropdown actions.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{
					"type":        "integer",
					"description": "Interactive element index from the page state.",
				},
				"x": map[string]any{
					"type":        "integer",
					"description": "X coordinate in the screenshot frame.",
				},
				"y": map[string]any{
					"type":        "integer",
					"description": "Y coordinate in the screenshot frame.",
				},
			},
		},
		Needs:   NeedSession,
		Handler: handleClick,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionInputText,
		Description: "Type text into the input element at the given index. Set clear to wipe its current value first. Secret placeholders like <secret>key</secret> are substituted before typing.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{
					"type":        "integer",
					"description": "Interactive element index of the input.",
				},
				"text": map[string]any{
					"type":        "string",
					"description": "The text to type.",
				},
				"clear": map[string]any{
					"type":        "boolean",
					"description": "Clear the existing value before typing.",
				},
			},
			"required": []string{"index", "text"},
		},
		Needs:   NeedSession,
		Handler: handleInputText,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionScroll,
		Description: "Scroll the page by delta pixels, or a scrollable container when index is set. Negative delta_y scrolls up.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"delta_x": map[string]any{
					"type":        "integer",
					"description": "Horizontal scroll distance in screenshot-frame pixels.",
				},
				"delta_y": map[string]any{
					"type":        "integer",
					"description": "Vertical scroll distance in screenshot-frame pixels.",
				},
				"index": map[string]any{
					"type":        "integer",
					"description": "Optional index of the scroll container.",
				},
			},
			"required": []string{"delta_y"},
		},
		Needs:   NeedSession,
		Handler: handleScroll,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionSendKeys,
		Description: "Send keyboard input to the focused element. Accepts literal text, special keys like Enter or Escape, and chords like Control+a.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"keys": map[string]any{
					"type":        "string",
					"description": "Keys to send.",
				},
			},
			"required": []string{"keys"},
		},
		Needs:   NeedSession,
		Handler: handleSendKeys,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionScrollToText,
		Description: "Scroll the first occurrence of the given text into view. Fails if the text is not on the page.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Visible text to scroll to.",
				},
			},
			"required": []string{"text"},
		},
		Needs:   NeedSession,
		Handler: handleScrollToText,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionGetDropdownOptions,
		Description: "List the options of the <select> dropdown at the given index.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{
					"type":        "integer",
					"description": "Interactive element index of the <select>.",
				},
			},
			"required": []string{"index"},
		},
		Needs:   NeedSession,
		Handler: handleGetDropdownOptions,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionSelectDropdownOption,
		Description: "Select the option whose visible text matches in the <select> dropdown at the given index. Use the exact text reported by get_dropdown_options.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{
					"type":        "integer",
					"description": "Interactive element index of the <select>.",
				},
				"text": map[string]any{
					"type":        "string",
					"description": "Exact visible text of the option to select.",
				},
			},
			"required": []string{"index", "text"},
		},
		Needs:   NeedSession,
		Handler: handleSelectDropdownOption,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionUploadFile,
		Description: "Attach a file to the upload control at or near the given index. The real file input is located automatically when the visible element is a styled button or label.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{
					"type":        "integer",
					"description": "Interactive element index of the upload control.",
				},
				"path": map[string]any{
					"type":        "string",
					"description": "Path of the file to upload.",
				},
			},
			"required": []string{"index", "path"},
		},
		Needs:   NeedSession,
		Handler: handleUploadFile,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionExtract,
		Description: "Ask the extraction model a question about the current page's text. Set extract_links to keep link targets in the text.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to extract from the page.",
				},
				"extract_links": map[string]any{
					"type":        "boolean",
					"description": "Include link targets in the page text.",
				},
			},
			"required": []string{"query"},
		},
		Needs:   NeedSession | NeedLLM | NeedFiles,
		Handler: handleExtract,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionScreenshot,
		Description: "Capture the viewport to a sandbox PNG, downscaled to the agent's frame.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"full_page": map[string]any{
					"type":        "boolean",
					"description": "Capture the full page instead of the viewport.",
				},
			},
		},
		Needs:   NeedSession | NeedFiles,
		Handler: handleScreenshot,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionEvaluate,
		Description: "Run a JavaScript expression in the page and return its JSON-serialized value. Common escaping damage in the script is repaired before execution.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"script": map[string]any{
					"type":        "string",
					"description": "The JavaScript to evaluate.",
				},
			},
			"required": []string{"script"},
		},
		Needs:   NeedSession,
		Handler: handleEvaluate,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionWriteFile,
		Description: "Write content to a sandbox file, or append when append is set. Parent directories are created as needed.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_name": map[string]any{
					"type":        "string",
					"description": "Relative name of the file inside the sandbox.",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "The content to write.",
				},
				"append": map[string]any{
					"type":        "boolean",
					"description": "Append instead of overwriting.",
				},
			},
			"required": []string{"file_name", "content"},
		},
		Needs:   NeedFiles,
		Handler: handleWriteFile,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionReadFile,
		Description: "Read a sandbox file's content.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_name": map[string]any{
					"type":        "string",
					"description": "Relative name of the file inside the sandbox.",
				},
			},
			"required": []string{"file_name"},
		},
		Needs:   NeedFiles,
		Handler: handleReadFile,
	})

	r.mustRegister(Descriptor{
		Name:        schemas.ActionReplaceFileStr,
		Description: "Replace every occurrence of old_str with new_str in a sandbox file. Fails when old_str does not occur.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_name": map[string]any{
					"type":        "string",
					"description": "Relative name of the file inside the sandbox.",
				},
				"old_str": map[string]any{
					"type":        "string",
					"description": "Exact string to replace.",
				},
				"new_str": map[string]any{
					"type":        "string",
					"description": "Replacement string; may be empty to delete.",
				},
			},
			"required": []string{"file_name", "old_str", "new_str"},
		},
		Needs:   NeedFiles,
		Handler: handleReplaceFileStr,
	})

	return r
}
