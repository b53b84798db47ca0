package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ExcerptLength is the number of runes kept from the content in an excerpt.
const ExcerptLength = 150

// WordCount counts whitespace-separated fields.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// Excerpt returns the first ExcerptLength runes of content, followed by
// "..." when the content was longer.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content
	}

	runes := []rune(content)
	return string(runes[:ExcerptLength]) + "..."
}

// RelativeDate renders t relative to now as "Today", "Yesterday",
// "N days ago" or "N week(s) ago".
func RelativeDate(t time.Time, now time.Time) string {
	const (
		day  = 24 * time.Hour
		week = 7 * day
	)

	diff := now.Sub(t)
	switch {
	case diff < day:
		return "Today"
	case diff < 2*day:
		return "Yesterday"
	case diff < week:
		return fmt.Sprintf("%d days ago", int(diff/day))
	}

	weeks := int(diff / week)
	if weeks == 1 {
		return "1 week ago"
	}
	return fmt.Sprintf("%d weeks ago", weeks)
}
