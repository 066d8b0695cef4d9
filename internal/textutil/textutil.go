// Package textutil turns API strings into terminal-friendly text.
package textutil

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PlainText flattens an HTML fragment to text. Block elements become line
// breaks; script and style bodies are dropped. Input that is not HTML is
// returned with surrounding space trimmed.
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	if !strings.ContainsAny(input, "<&") {
		return strings.TrimSpace(input)
	}

	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return strings.TrimSpace(input)
	}

	var b strings.Builder
	extractText(node, &b)
	return collapseBlankLines(b.String())
}

func extractText(node *html.Node, b *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(node.Data)
	case html.ElementNode:
		switch node.Data {
		case "script", "style":
			return
		case "br", "p", "div", "li":
			b.WriteRune('\n')
		}
		if node.Data == "li" {
			b.WriteString("• ")
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, b)
	}

	if node.Type == html.ElementNode && (node.Data == "p" || node.Data == "div" || node.Data == "li") {
		b.WriteRune('\n')
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Truncate shortens s to at most max runes, ending with an ellipsis when
// cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// timestampLayouts are the formats the backend emits (isoformat with and
// without fractional seconds or offset).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a backend timestamp.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a backend timestamp as "Jan 02, 2006", or returns the
// input unchanged when it cannot be parsed.
func FormatDate(s string) string {
	if t, ok := ParseTimestamp(s); ok {
		return t.Format("Jan 02, 2006")
	}
	return s
}
