// internal/browser/jsrepair/jsrepair.go
package jsrepair

import (
	"regexp"
	"strings"
)

// LLM-produced JavaScript frequently arrives mangled by one extra layer of
// string escaping: single quotes escaped where no enclosing quote requires
// it, regex classes double-escaped, selector literals whose quoting fights
// the transport. Repair applies a fixed sequence of textual rewrites that
// undo the common manglings. It is deliberately not a parser: rewrites are
// heuristic, idempotent, and conservative. A snippet it cannot help is
// passed through for the engine to report on.

// Repair returns the snippet with all rewrites applied, in order:
//
//  1. unescape single quotes (odd backslash runs before ' lose one slash)
//  2. collapse doubled backslashes before regex metacharacters
//  3. re-quote lone double-quoted selector arguments that embed a single
//     quote as template literals
//
// Repair(Repair(s)) == Repair(s) for all s, and the parenthesis balance of
// s is never altered.
func Repair(src string) string {
	out := unescapeSingleQuotes(src)
	out = collapseDoubleEscapes(out)
	out = requoteSelectorArgs(out)
	return out
}

// unescapeSingleQuotes removes the escaping backslash from every \' whose
// backslash run is odd. An odd run means the quote itself is escaped; an
// even run is a literal backslash sequence and is left alone, which is what
// makes a second pass a no-op.
func unescapeSingleQuotes(s string) string {
	if !strings.Contains(s, `\'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		run := 0
		for i+run < len(s) && s[i+run] == '\\' {
			run++
		}
		next := i + run
		if next < len(s) && s[next] == '\'' && run%2 == 1 {
			b.WriteString(strings.Repeat(`\`, run-1))
		} else {
			b.WriteString(strings.Repeat(`\`, run))
		}
		i = next
	}
	return b.String()
}

// regex metacharacters that LLMs double-escape inside pattern literals.
const regexMetachars = `dDwWsSbB.+*?^$|(){}[]/`

// collapseDoubleEscapes rewrites a run of exactly two backslashes before a
// regex metacharacter to a single backslash. Longer runs are ambiguous
// (they may be deliberate literal backslashes) and are not touched, which
// also keeps the rewrite idempotent.
func collapseDoubleEscapes(s string) string {
	if !strings.Contains(s, `\\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		run := 0
		for i+run < len(s) && s[i+run] == '\\' {
			run++
		}
		next := i + run
		if run == 2 && next < len(s) && strings.IndexByte(regexMetachars, s[next]) >= 0 {
			b.WriteByte('\\')
		} else {
			b.WriteString(strings.Repeat(`\`, run))
		}
		i = next
	}
	return b.String()
}

// selectorCallRe matches a selector-taking call whose sole argument is a
// double-quoted literal. The argument class excludes double quotes,
// backticks, and backslashes so the rewrite can never change the meaning
// of an escape or nest template delimiters.
var selectorCallRe = regexp.MustCompile(
	`\b(querySelectorAll|querySelector|closest|matches|evaluate)\(\s*"([^"\\` + "`" + `]*)"\s*\)`)

// requoteSelectorArgs rewrites querySelector("a[href='x']") style calls to
// use a template literal, but only when the argument actually embeds a
// single quote. Double-quoted arguments without one are already safe under
// any further transport quoting and are left alone.
func requoteSelectorArgs(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}
	return selectorCallRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := selectorCallRe.FindStringSubmatch(m)
		if !strings.Contains(sub[2], "'") {
			return m
		}
		return sub[1] + "(`" + sub[2] + "`)"
	})
}
