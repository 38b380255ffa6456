package analysis

import "regexp"

// Segment is a run of text that either matches the search query or not
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlighter splits text around case-insensitive occurrences of one query
type Highlighter struct {
	pattern *regexp.Regexp
}

// NewHighlighter compiles query once for repeated use. An empty query
// matches nothing.
func NewHighlighter(query string) *Highlighter {
	if query == "" {
		return &Highlighter{}
	}
	return &Highlighter{pattern: regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))}
}

// Split returns text as alternating unmatched and matched segments
func (h *Highlighter) Split(text string) []Segment {
	if text == "" {
		return nil
	}
	if h.pattern == nil {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for _, loc := range h.pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Highlight splits text around case-insensitive occurrences of query
func Highlight(text, query string) []Segment {
	return NewHighlighter(query).Split(text)
}
