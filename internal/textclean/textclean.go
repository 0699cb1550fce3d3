// Package textclean turns server-supplied rich text into plain terminal text.
package textclean

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Plain strips every tag, decodes entities and collapses runs of blank lines
func Plain(s string) string {
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n\n").Replace(s)
	s = html.UnescapeString(policy.Sanitize(s))

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Line is Plain folded onto a single line, for list rows
func Line(s string) string {
	return strings.Join(strings.Fields(Plain(s)), " ")
}

// Join cleans each item with Line and joins the non-empty ones with sep
func Join(items []string, sep string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if clean := Line(item); clean != "" {
			out = append(out, clean)
		}
	}
	return strings.Join(out, sep)
}
