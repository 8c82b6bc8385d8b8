// internal/browser/domtext/domtext.go
package domtext

import (
	"strings"

	"golang.org/x/net/html"
)

// The extraction model reads pages as plain text, not markup. Reduce
// flattens a serialized document into that text: visible content only,
// whitespace collapsed, optionally keeping link targets, capped to a
// budget the model can afford.

// Options controls the reduction.
type Options struct {
	// IncludeLinks appends each anchor's target after its text.
	IncludeLinks bool
	// MaxLen caps the output in bytes. Zero means DefaultMaxLen.
	MaxLen int
}

// DefaultMaxLen bounds the page text handed to the extraction model.
const DefaultMaxLen = 120_000

const truncationMarker = "\n[page text truncated]"

// Tags whose entire subtree carries nothing the model should read.
var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"head":     true,
	"template": true,
	"object":   true,
}

// Tags that end a visual block and therefore a text line.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
	"ul": true, "ol": true, "blockquote": true, "pre": true, "form": true,
}

// Reduce flattens rawHTML into agent-readable text.
func Reduce(rawHTML string, opts Options) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	emit(doc, &b, opts)

	text := collapse(b.String())
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if len(text) > maxLen {
		text = text[:maxLen] + truncationMarker
	}
	return text, nil
}

func emit(n *html.Node, b *strings.Builder, opts Options) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if droppedTags[n.Data] {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		emit(c, b, opts)
	}

	if n.Type != html.ElementNode {
		return
	}
	if opts.IncludeLinks && n.Data == "a" {
		if href := attrVal(n, "href"); href != "" && !strings.HasPrefix(href, "javascript:") {
			b.WriteString(" (")
			b.WriteString(href)
			b.WriteString(")")
		}
	}
	if blockTags[n.Data] {
		b.WriteByte('\n')
	} else {
		// Inline boundary: keep adjacent words apart.
		b.WriteByte(' ')
	}
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collapse normalizes intra-line whitespace and squeezes runs of blank
// lines down to one.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
