package textgen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	fencePattern       = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	listMarkerPattern  = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)
	wrappingQuoteChars = "\"'`“”‘’"
)

// ParseTopics extracts up to MaxTopics titles from model output. It accepts
// a JSON array of strings, optionally wrapped in a markdown code fence, a
// JSON object whose values are titles, or free text with one title per line.
func ParseTopics(text string) []string {
	body := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = strings.TrimSpace(m[1])
	}

	if topics, ok := parseJSONTopics(body); ok {
		return limitTopics(topics)
	}

	return limitTopics(parseLineTopics(body))
}

func parseJSONTopics(body string) ([]string, bool) {
	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, false
	}

	switch v := decoded.(type) {
	case []any:
		return stringValues(v), true
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		values := make([]any, 0, len(keys))
		for _, k := range keys {
			values = append(values, v[k])
		}
		return stringValues(values), true
	}

	return nil, false
}

func stringValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		var s string
		switch t := value.(type) {
		case string:
			s = t
		case map[string]any:
			if title, ok := t["title"].(string); ok {
				s = title
			}
		case nil:
		default:
			s = fmt.Sprint(t)
		}

		if s = cleanTitle(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseLineTopics(body string) []string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") || line == "[" || line == "]" {
			continue
		}

		line = listMarkerPattern.ReplaceAllString(line, "")
		line = strings.TrimSuffix(line, ",")
		if title := cleanTitle(line); title != "" {
			out = append(out, title)
		}
	}
	return out
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, wrappingQuoteChars)
	s = strings.TrimPrefix(strings.TrimSuffix(s, "**"), "**")
	return strings.TrimSpace(s)
}

func limitTopics(topics []string) []string {
	if len(topics) > MaxTopics {
		return topics[:MaxTopics]
	}
	return topics
}
