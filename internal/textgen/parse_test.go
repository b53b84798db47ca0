package textgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "json array",
			in:   `["One", "Two", "Three", "Four", "Five"]`,
			want: []string{"One", "Two", "Three", "Four", "Five"},
		},
		{
			name: "fenced json array",
			in:   "```json\n[\"Alpha\", \"Beta\"]\n```",
			want: []string{"Alpha", "Beta"},
		},
		{
			name: "json object values in key order",
			in:   `{"2": "Second", "1": "First"}`,
			want: []string{"First", "Second"},
		},
		{
			name: "array of objects with titles",
			in:   `[{"title": "Go in production"}, {"title": "  "}]`,
			want: []string{"Go in production"},
		},
		{
			name: "numbered free text",
			in:   "Here are some ideas:\n\n1. \"Why Go?\"\n2) Testing with testify\n- Bullet idea\n",
			want: []string{"Why Go?", "Testing with testify", "Bullet idea"},
		},
		{
			name: "more than five is truncated",
			in:   `["a","b","c","d","e","f","g"]`,
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "empty",
			in:   "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTopics(tt.in))
		})
	}
}

func TestIdeasPrompt(t *testing.T) {
	p := IdeasPrompt("remote work", "  async, focus ")
	assert.Contains(t, p, `"remote work"`)
	assert.Contains(t, p, "async, focus.")
	assert.Contains(t, p, "JSON array of 5 strings")

	assert.NotContains(t, IdeasPrompt("x", " "), "keywords")
}
