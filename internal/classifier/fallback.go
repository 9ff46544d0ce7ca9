package classifier

import (
	"strings"

	"reelvault/internal/category"
)

const (
	// TitleLimit is the maximum title length in display characters.
	TitleLimit = 50
	// SummaryLimit is the number of characters kept from the input when a
	// summary has to be derived locally.
	SummaryLimit = 150
	// DefaultTitle is used when no title can be derived from the input.
	DefaultTitle = "New Reel"

	titleWords = 6
	ellipsis   = "..."
)

// IsURL reports whether raw input looks like a link rather than free text.
func IsURL(raw string) bool {
	return strings.HasPrefix(raw, "http") || strings.HasPrefix(raw, "www")
}

// Fallback classifies raw input with local heuristics only. It is total: any
// input yields usable fields.
func Fallback(raw string) Fields {
	return Fields{
		Title:    heuristicTitle(raw),
		Summary:  CapSummary(raw),
		Category: category.ClassifyByHint(category.Hint(raw)),
	}
}

// heuristicTitle takes the first words of the segment that follows the first
// colon, e.g. "recipe: homemade pasta" -> "homemade pasta".
func heuristicTitle(raw string) string {
	segments := strings.Split(raw, ":")
	if len(segments) < 2 {
		return DefaultTitle
	}
	words := strings.Fields(segments[1])
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	title := strings.Join(words, " ")
	if title == "" {
		return DefaultTitle
	}
	return CapTitle(title)
}

// CapTitle shortens a title to TitleLimit characters, ellipsis included.
func CapTitle(title string) string {
	r := []rune(title)
	if len(r) <= TitleLimit {
		return title
	}
	return string(r[:TitleLimit-len(ellipsis)]) + ellipsis
}

// CapSummary keeps the first SummaryLimit characters and marks the cut with an ellipsis.
func CapSummary(summary string) string {
	r := []rune(summary)
	if len(r) <= SummaryLimit {
		return summary
	}
	return string(r[:SummaryLimit]) + ellipsis
}
