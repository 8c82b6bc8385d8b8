// internal/browser/jsrepair/jsrepair_test.go
package jsrepair_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/wheelhouse-ai/wheelhouse/internal/browser/jsrepair"
)

func TestRepair(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "UnescapedSingleQuotes",
			in:   `document.querySelector(\'#login\').click()`,
			want: `document.querySelector('#login').click()`,
		},
		{
			name: "EvenBackslashRunBeforeQuoteUntouched",
			in:   `const s = "a\\" + 'b'`,
			want: `const s = "a\\" + 'b'`,
		},
		{
			name: "OddTripleRunLosesOneSlash",
			in:   `x = \\\'y`,
			want: `x = \\'y`,
		},
		{
			name: "DoubleEscapedRegexClass",
			in:   `text.match(/\\d+\\.\\d+/)`,
			want: `text.match(/\d+\.\d+/)`,
		},
		{
			name: "DoubleEscapedWordAndSpace",
			in:   `s.split(/\\s+/).filter(w => /\\w/.test(w))`,
			want: `s.split(/\s+/).filter(w => /\w/.test(w))`,
		},
		{
			name: "QuadrupleBackslashRunUntouched",
			in:   `path.replace(/\\\\/g, "-")`,
			want: `path.replace(/\\\\/g, "-")`,
		},
		{
			name: "DoubleBackslashBeforeLetterUntouched",
			in:   `const p = "C:\\temp"`,
			want: `const p = "C:\\temp"`,
		},
		{
			name: "SelectorArgWithSingleQuoteBecomesTemplate",
			in:   `document.querySelector("input[name='email']")`,
			want: "document.querySelector(`input[name='email']`)",
		},
		{
			name: "QuerySelectorAllArg",
			in:   `document.querySelectorAll("div[data-v='1']").length`,
			want: "document.querySelectorAll(`div[data-v='1']`).length",
		},
		{
			name: "ClosestArg",
			in:   `el.closest("tr[id='row-3']")`,
			want: "el.closest(`tr[id='row-3']`)",
		},
		{
			name: "SelectorArgWithoutSingleQuoteUntouched",
			in:   `document.querySelector("#plain")`,
			want: `document.querySelector("#plain")`,
		},
		{
			name: "SingleQuotedSelectorArgUntouched",
			in:   `document.querySelector('#a').focus()`,
			want: `document.querySelector('#a').focus()`,
		},
		{
			name: "MultiArgEvaluateUntouched",
			in:   `document.evaluate("//a[@id='x']", document, null, 9, null)`,
			want: `document.evaluate("//a[@id='x']", document, null, 9, null)`,
		},
		{
			name: "SelectorArgWithParens",
			in:   `document.querySelector("li:not([class='done'])")`,
			want: "document.querySelector(`li:not([class='done'])`)",
		},
		{
			name: "AllRulesTogether",
			in:   `document.querySelector(\'#q\').value.match(/\\d+/) && el.matches("a[href='/']")`,
			want: "document.querySelector('#q').value.match(/\\d+/) && el.matches(`a[href='/']`)",
		},
		{
			name: "Empty",
			in:   "",
			want: "",
		},
		{
			name: "PlainScriptUntouched",
			in:   `(() => { return document.title; })()`,
			want: `(() => { return document.title; })()`,
		},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := jsrepair.Repair(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, jsrepair.Repair(got), "second pass must be a no-op")
		})
	}
}

// The repair alphabet biased toward the characters the rewrites react to.
var repairRunes = []rune(`\'"` + "`" + `dws.()[]{}/+e aq1=`)

func TestProperty_Repair_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.StringOfN(rapid.RuneFrom(repairRunes), 0, 80, -1).Draw(rt, "src")
		once := jsrepair.Repair(src)
		twice := jsrepair.Repair(once)
		assert.Equal(t, once, twice)
	})
}

func TestProperty_Repair_PreservesParenCounts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.StringOfN(rapid.RuneFrom(repairRunes), 0, 80, -1).Draw(rt, "src")
		out := jsrepair.Repair(src)
		assert.Equal(t, strings.Count(src, "("), strings.Count(out, "("))
		assert.Equal(t, strings.Count(src, ")"), strings.Count(out, ")"))
	})
}

func TestProperty_Repair_RealisticSnippetsIdempotent(t *testing.T) {
	snippets := []string{
		`document.querySelector(\'#id\')`,
		`document.querySelector("a[href='x']")`,
		`input.value.match(/\\d{4}/)`,
		`els.filter(e => e.matches("li[data-k='v']"))`,
		`(function(){ return 1; })()`,
	}
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.SampledFrom(snippets).Draw(rt, "a")
		b := rapid.SampledFrom(snippets).Draw(rt, "b")
		src := a + "; " + b
		once := jsrepair.Repair(src)
		assert.Equal(t, once, jsrepair.Repair(once))
	})
}
