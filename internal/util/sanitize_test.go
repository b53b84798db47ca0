package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	t.Run("trims and folds whitespace controls", func(t *testing.T) {
		require.Equal(t, "My first post", CleanText("  My first\tpost \n"))
	})

	t.Run("strips zero-width characters", func(t *testing.T) {
		require.Equal(t, "Go tips", CleanText("Go\u200B \u200Dtips\uFEFF"))
	})

	t.Run("drops other control characters", func(t *testing.T) {
		require.Equal(t, "ab", CleanText("a\x00\x07b"))
	})

	t.Run("empty after stripping", func(t *testing.T) {
		require.Empty(t, CleanText("\u200B\u200C  "))
	})
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", TruncateRunes("abc", 10))

	long := strings.Repeat("ü", 300)
	actual := TruncateRunes(long, 200)
	require.Equal(t, 200, utf8.RuneCountInString(actual))
	require.True(t, utf8.ValidString(actual))
}
