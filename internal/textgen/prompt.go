package textgen

import (
	"fmt"
	"strings"
)

// MaxTopics is the number of titles an ideas request asks for.
const MaxTopics = 5

func IdeasPrompt(topic string, keywords string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d engaging, creative, and specific blog post ideas about %q.", MaxTopics, topic)
	if k := strings.TrimSpace(keywords); k != "" {
		fmt.Fprintf(&b, " Include these keywords where appropriate: %s.", k)
	}
	fmt.Fprintf(&b, " Format the output as a JSON array of %d strings, with no additional text or explanation."+
		" Each title should be concise but descriptive.", MaxTopics)
	return b.String()
}

func DraftPrompt(title string, keywords string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete, well-structured blog post draft titled %q.", title)
	if k := strings.TrimSpace(keywords); k != "" {
		fmt.Fprintf(&b, " Work in these keywords naturally: %s.", k)
	}
	b.WriteString(" Use short paragraphs and plain text headings. Return only the article body.")
	return b.String()
}
