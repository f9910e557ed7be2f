package ui

import (
	"fmt"
	"strings"

	"nimbus/internal/upload"
)

const barWidth = 24

// renderUploadPopup draws the transfer queue overlay. Empty string when the
// popup is closed.
func renderUploadPopup(mgr *upload.Manager, width int) string {
	items, open, total, completed := mgr.Snapshot()
	if !open {
		return ""
	}

	var b strings.Builder
	b.WriteString(crumbStyle.Render(fmt.Sprintf("Uploads %d/%d", completed, total)) + "\n")
	if len(items) == 0 {
		b.WriteString(blurredStyle.Render("queue empty"))
	}
	for _, it := range items {
		line := fmt.Sprintf("%-28s %s %s", truncate(it.Name, 28), renderBar(it.Progress), it.Status)
		switch it.Status {
		case upload.StatusError:
			line = errorMessageStyle(line + "  " + it.Err)
		case upload.StatusCancelled:
			line = blurredStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(helpStyle.Render("p: hide"))

	style := popupStyle
	if width > 12 {
		style = style.Width(min(width-4, 80))
	}
	return style.Render(b.String())
}

func renderBar(frac float64) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * barWidth)
	return focusedStyle.Render(strings.Repeat("█", filled)) +
		blurredStyle.Render(strings.Repeat("░", barWidth-filled))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
