package jobs

import (
	"fmt"
	"html"
	"strings"
)

// ParseAndColorLogContent wraps job log lines in HTML spans by level.
// Per-file outcome lines carry a color attribute that overrides the level color.
func ParseAndColorLogContent(content string) string {
	lines := strings.Split(content, "\n")
	coloredLines := make([]string, 0, len(lines))

	for _, line := range lines {
		escaped := html.EscapeString(line)
		if strings.TrimSpace(line) == "" {
			coloredLines = append(coloredLines, escaped)
			continue
		}

		class := ""
		switch extractLogLevel(line) {
		case "ERROR":
			class = "log-error"
		case "WARN", "WARNING":
			class = "log-warning"
		case "INFO":
			switch {
			case strings.Contains(line, "color=green"):
				class = "log-green"
			case strings.Contains(line, "color=orange"):
				class = "log-orange"
			case strings.Contains(line, "color=blue"):
				class = "log-blue"
			}
		}

		if class == "" {
			coloredLines = append(coloredLines, escaped)
		} else {
			coloredLines = append(coloredLines, fmt.Sprintf(`<span class="%s">%s</span>`, class, escaped))
		}
	}

	return strings.Join(coloredLines, "\n")
}

// extractLogLevel extracts the log level from a log line
func extractLogLevel(line string) string {
	if idx := strings.Index(line, "level="); idx != -1 {
		start := idx + len("level=")
		end := strings.Index(line[start:], " ")
		if end == -1 {
			end = len(line[start:])
		}
		return strings.ToUpper(line[start : start+end])
	}
	return ""
}
