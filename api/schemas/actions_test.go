package schemas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestActionRequestFirst(t *testing.T) {
	t.Parallel()

	t.Run("EmptyRequest", func(t *testing.T) {
		t.Parallel()
		name, params := (&schemas.ActionRequest{}).First()
		assert.Empty(t, name)
		assert.Nil(t, params)
	})

	t.Run("NilRequest", func(t *testing.T) {
		t.Parallel()
		var req *schemas.ActionRequest
		name, params := req.First()
		assert.Empty(t, name)
		assert.Nil(t, params)
	})

	t.Run("SingleField", func(t *testing.T) {
		t.Parallel()
		req := &schemas.ActionRequest{Navigate: &schemas.NavigateParams{URL: "https://example.com"}}
		name, params := req.First()
		assert.Equal(t, schemas.ActionNavigate, name)
		require.IsType(t, &schemas.NavigateParams{}, params)
		assert.Equal(t, "https://example.com", params.(*schemas.NavigateParams).URL)
	})

	t.Run("MultipleFieldsPicksDeclarationOrder", func(t *testing.T) {
		t.Parallel()
		// Click is declared before Scroll; a malformed request carrying both
		// must resolve to click.
		req := &schemas.ActionRequest{
			Scroll: &schemas.ScrollParams{DeltaY: 100},
			Click:  &schemas.ClickParams{Index: intPtr(3)},
		}
		name, _ := req.First()
		assert.Equal(t, schemas.ActionClick, name)
	})

	t.Run("DoneWinsOverEverything", func(t *testing.T) {
		t.Parallel()
		req := &schemas.ActionRequest{
			Done:     &schemas.DoneParams{Text: "finished", Success: true},
			Navigate: &schemas.NavigateParams{URL: "https://example.com"},
		}
		name, _ := req.First()
		assert.Equal(t, schemas.ActionDone, name)
	})
}

func TestParamValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		params  schemas.ActionParams
		wantErr string
	}{
		{"NavigateValid", &schemas.NavigateParams{URL: "https://example.com/a?b=1"}, ""},
		{"NavigateEmptyURL", &schemas.NavigateParams{URL: "  "}, "url must not be empty"},
		{"NavigateBadScheme", &schemas.NavigateParams{URL: "javascript:alert(1)"}, "unsupported url scheme"},
		{"NavigateSchemeless", &schemas.NavigateParams{URL: "example.com/path"}, ""},

		{"WaitValid", &schemas.WaitParams{Seconds: 3}, ""},
		{"WaitNegative", &schemas.WaitParams{Seconds: -1}, "must not be negative"},
		{"WaitTooLong", &schemas.WaitParams{Seconds: 31}, "must not exceed"},

		{"ClickByIndex", &schemas.ClickParams{Index: intPtr(0)}, ""},
		{"ClickByPoint", &schemas.ClickParams{X: int64Ptr(10), Y: int64Ptr(20)}, ""},
		{"ClickBothModes", &schemas.ClickParams{Index: intPtr(1), X: int64Ptr(1), Y: int64Ptr(1)}, "mutually exclusive"},
		{"ClickHalfPoint", &schemas.ClickParams{X: int64Ptr(10)}, "both x and y are required"},
		{"ClickUnaddressed", &schemas.ClickParams{}, "either index or x/y"},
		{"ClickNegativeIndex", &schemas.ClickParams{Index: intPtr(-2)}, "must not be negative"},

		{"InputTextValid", &schemas.InputTextParams{Index: 4, Text: "hello"}, ""},
		{"InputTextNegativeIndex", &schemas.InputTextParams{Index: -1, Text: "x"}, "must not be negative"},

		{"ScrollValid", &schemas.ScrollParams{DeltaY: -250}, ""},
		{"ScrollZeroDeltas", &schemas.ScrollParams{}, "must be non-zero"},

		{"SendKeysValid", &schemas.SendKeysParams{Keys: "Control+a"}, ""},
		{"SendKeysEmpty", &schemas.SendKeysParams{}, "must not be empty"},

		{"ScrollToTextValid", &schemas.ScrollToTextParams{Text: "Checkout"}, ""},
		{"ScrollToTextBlank", &schemas.ScrollToTextParams{Text: " \t"}, "must not be empty"},

		{"DropdownOptionsValid", &schemas.GetDropdownOptionsParams{Index: 7}, ""},
		{"SelectOptionMissingText", &schemas.SelectDropdownOptionParams{Index: 7}, "must not be empty"},

		{"UploadValid", &schemas.UploadFileParams{Index: 2, Path: "/tmp/resume.pdf"}, ""},
		{"UploadEmptyPath", &schemas.UploadFileParams{Index: 2, Path: ""}, "must not be empty"},

		{"ExtractValid", &schemas.ExtractParams{Query: "list all prices"}, ""},
		{"ExtractBlankQuery", &schemas.ExtractParams{Query: ""}, "must not be empty"},

		{"EvaluateValid", &schemas.EvaluateParams{Script: "document.title"}, ""},
		{"EvaluateBlank", &schemas.EvaluateParams{Script: "   "}, "must not be empty"},

		{"WriteFileValid", &schemas.WriteFileParams{FileName: "notes.md", Content: "x"}, ""},
		{"WriteFileNoName", &schemas.WriteFileParams{Content: "x"}, "must not be empty"},
		{"ReadFileNoName", &schemas.ReadFileParams{}, "must not be empty"},
		{"ReplaceEmptyOld", &schemas.ReplaceFileStrParams{FileName: "notes.md", NewStr: "b"}, "must not be empty"},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClickParamsTarget(t *testing.T) {
	t.Parallel()

	byIndex := schemas.ClickParams{Index: intPtr(5)}
	target := byIndex.Target()
	require.NotNil(t, target.Index)
	assert.Equal(t, 5, *target.Index)
	assert.Nil(t, target.Point)

	byPoint := schemas.ClickParams{X: int64Ptr(120), Y: int64Ptr(80)}
	target = byPoint.Target()
	require.NotNil(t, target.Point)
	assert.Equal(t, schemas.Point{X: 120, Y: 80}, *target.Point)
	assert.Nil(t, target.Index)
}
