package search

import "strings"

const (
	// maxHighlightsPerTerm caps the highlight strings produced per term.
	maxHighlightsPerTerm = 3
	// snippetRadius is the character window around a description match.
	snippetRadius = 50
)

// highlightTerm produces up to three field-tagged highlight strings for
// one matched term, checking fields in display order: title,
// description, technologies, tags. The matched text is wrapped in the
// markdown emphasis marker.
func highlightTerm(e *IndexEntry, term string) []string {
	var out []string

	if strings.Contains(strings.ToLower(e.Title), term) {
		out = append(out, "Title: "+emphasize(e.Title, term))
	}

	if len(out) < maxHighlightsPerTerm {
		if snippet, ok := descriptionSnippet(e.Description, term); ok {
			out = append(out, "Description: "+snippet)
		}
	}

	for _, tech := range e.Technology {
		if len(out) >= maxHighlightsPerTerm {
			return out
		}
		if strings.Contains(strings.ToLower(tech), term) {
			out = append(out, "Technology: "+emphasize(tech, term))
		}
	}

	for _, tag := range e.Tags {
		if len(out) >= maxHighlightsPerTerm {
			return out
		}
		if strings.Contains(strings.ToLower(tag), term) {
			out = append(out, "Tag: "+emphasize(tag, term))
		}
	}

	return out
}

// descriptionSnippet extracts a window around the first match of term,
// with ellipses marking truncation, and the match emphasized.
func descriptionSnippet(description, term string) (string, bool) {
	lower := strings.ToLower(description)
	idx := strings.Index(lower, term)
	if idx < 0 {
		return "", false
	}

	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(term) + snippetRadius
	if end > len(description) {
		end = len(description)
	}

	// Avoid splitting a multibyte rune at the window edges.
	for start > 0 && !isRuneStart(description[start]) {
		start--
	}
	for end < len(description) && !isRuneStart(description[end]) {
		end++
	}

	snippet := emphasize(description[start:end], term)
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(description) {
		snippet += "..."
	}
	return snippet, true
}

// emphasize wraps the first case-insensitive occurrence of term in
// markdown bold markers, preserving the original casing.
func emphasize(s, term string) string {
	idx := strings.Index(strings.ToLower(s), term)
	if idx < 0 {
		return s
	}
	return s[:idx] + "**" + s[idx:idx+len(term)] + "**" + s[idx+len(term):]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
