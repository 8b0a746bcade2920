package main

import (
	"strings"
	"time"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

func truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	if limit <= 3 {
		return text[:limit]
	}
	return text[:limit-3] + "..."
}

func compactSingleLine(text string, limit int) string {
	compact := strings.Join(strings.Fields(text), " ")
	return truncate(compact, limit)
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	wrapped := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			wrapped = append(wrapped, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) <= width {
				current += " " + word
				continue
			}
			wrapped = append(wrapped, current)
			current = word
		}
		wrapped = append(wrapped, current)
	}
	return strings.Join(wrapped, "\n")
}

// formatDate renders either a date-only value (next_action_date) or an
// RFC3339 timestamp (created_at) as DD/MM/YYYY; anything unparseable shows
// as an em-dash placeholder.
func formatDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "—"
	}
	if parsed, err := time.Parse("2006-01-02", trimmed); err == nil {
		return parsed.Format("02/01/2006")
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed.Local().Format("02/01/2006")
	}
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed.Local().Format("02/01/2006")
	}
	return "—"
}

func typeIcon(t domain.InteractionType) string {
	switch t {
	case domain.TypeCall:
		return "📞"
	case domain.TypeEmail:
		return "📧"
	case domain.TypeMeeting:
		return "🤝"
	case domain.TypeNote:
		return "📝"
	default:
		return "📋"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func ternary[T any](condition bool, whenTrue T, whenFalse T) T {
	if condition {
		return whenTrue
	}
	return whenFalse
}
