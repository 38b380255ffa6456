package main

import (
	"fmt"
	"io"
	"strings"

	"tjarchive-backend/analysis"
	"tjarchive-backend/client"
	"tjarchive-backend/models"
)

const (
	highlightStart = "\x1b[1;33m"
	highlightEnd   = "\x1b[0m"
)

func renderDecision(w io.Writer, detail *client.DecisionDetail, query string) {
	d := detail.Decision
	meta := d.Metadata
	hl := newMarker(query)

	fmt.Fprintf(w, "%s\n", hl.mark(orDash(models.StringValue(meta.CaseNo))))
	fmt.Fprintf(w, "  serial:    %s\n", detail.CaseSerial)
	fmt.Fprintf(w, "  applicant: %s\n", hl.mark(orDash(models.StringValue(meta.Applicant))))
	fmt.Fprintf(w, "  subject:   %s\n", hl.mark(orDash(models.StringValue(meta.Subject))))
	fmt.Fprintf(w, "  date:      %s\n", orDash(models.StringValue(meta.Date)))
	renderTags(w, detail.Tags)

	if d.Content.MainText != "" {
		fmt.Fprintf(w, "\n主文\n%s\n", hl.mark(d.Content.MainText))
	}

	if len(d.StructuredReasoning) == 0 {
		return
	}
	fmt.Fprintln(w, "\n理由")
	for _, root := range d.StructuredReasoning {
		root.Walk(func(node models.ReasoningNode, depth int) bool {
			indent := strings.Repeat("  ", depth+1)
			fmt.Fprintf(w, "%s%s\n", indent, hl.mark(node.Text))
			for _, paragraph := range node.Content {
				fmt.Fprintf(w, "%s  %s\n", indent, hl.mark(paragraph))
			}
			return true
		})
	}
}

func renderTags(w io.Writer, tags models.TagResult) {
	if tags.IsEmpty() {
		fmt.Fprintln(w, "  tags:      -")
		return
	}
	fmt.Fprintf(w, "  crimes:    %s\n", orDash(strings.Join(tags.Crimes, ", ")))
	fmt.Fprintf(w, "  reasons:   %s\n", orDash(strings.Join(tags.Reasons, ", ")))
	fmt.Fprintf(w, "  sentences: %s\n", orDash(strings.Join(tags.Sentences, ", ")))
}

type marker struct {
	highlighter *analysis.Highlighter
}

func newMarker(query string) marker {
	if query == "" {
		return marker{}
	}
	return marker{highlighter: analysis.NewHighlighter(query)}
}

func (m marker) mark(text string) string {
	if m.highlighter == nil {
		return text
	}
	var b strings.Builder
	for _, seg := range m.highlighter.Split(text) {
		if seg.Match {
			b.WriteString(highlightStart + seg.Text + highlightEnd)
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
