package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Hint is one key/label pair in the footer bar.
type Hint struct {
	Key   string
	Label string
}

// renderFooter builds the bottom hint bar, condensing when the terminal
// is narrow.
func renderFooter(width int, hints []Hint) string {
	var parts []string
	for _, h := range hints {
		key := styleFooterKey.Render(fmt.Sprintf("[%s]", h.Key))
		parts = append(parts, key+" "+styleFooterLabel.Render(h.Label))
	}
	content := strings.Join(parts, "  ")

	// Drop labels when the full bar does not fit
	if lipgloss.Width(content) > width {
		parts = parts[:0]
		for _, h := range hints {
			parts = append(parts, styleFooterKey.Render(fmt.Sprintf("[%s]", h.Key)))
		}
		content = strings.Join(parts, " ")
	}
	return content
}
