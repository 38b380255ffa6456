package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		query string
		want  []Segment
	}{
		{
			name: "empty text",
			text: "", query: "x",
			want: nil,
		},
		{
			name: "empty query",
			text: "懲治叛亂條例", query: "",
			want: []Segment{{Text: "懲治叛亂條例"}},
		},
		{
			name: "middle match",
			text: "懲治叛亂條例", query: "叛亂",
			want: []Segment{{Text: "懲治"}, {Text: "叛亂", Match: true}, {Text: "條例"}},
		},
		{
			name: "case insensitive keeps original casing",
			text: "Lin and LIN", query: "lin",
			want: []Segment{{Text: "Lin", Match: true}, {Text: " and "}, {Text: "LIN", Match: true}},
		},
		{
			name: "regexp metacharacters are literal",
			text: "a.b(c)", query: "(c)",
			want: []Segment{{Text: "a.b"}, {Text: "(c)", Match: true}},
		},
		{
			name: "no match",
			text: "死刑", query: "感化",
			want: []Segment{{Text: "死刑"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query))
		})
	}
}

func TestHighlighterReuse(t *testing.T) {
	t.Parallel()

	h := NewHighlighter("亂")
	assert.Equal(t, []Segment{{Text: "叛"}, {Text: "亂", Match: true}}, h.Split("叛亂"))
	assert.Equal(t, []Segment{{Text: "亂", Match: true}, {Text: "世"}}, h.Split("亂世"))
	assert.Nil(t, h.Split(""))

	empty := NewHighlighter("")
	assert.Equal(t, []Segment{{Text: "叛亂"}}, empty.Split("叛亂"))
}
