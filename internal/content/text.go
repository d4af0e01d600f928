package content

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultExcerptLength is the excerpt limit in runes.
	DefaultExcerptLength = 200

	// DefaultWordsPerMinute is the reading speed behind ReadingTime.
	DefaultWordsPerMinute = 200

	ellipsis = "..."
)

// PlainText returns the visible text of an HTML fragment with all runs of
// whitespace collapsed to single spaces.
func PlainText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("plain text: %w", err)
	}

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates whole minutes to read text at wpm words per minute,
// rounding up. Empty text reads in zero minutes.
func ReadingTime(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}

	words := WordCount(text)
	if words == 0 {
		return 0
	}

	return (words + wpm - 1) / wpm
}

// Excerpt shortens text to at most limit runes plus an ellipsis. A word cut
// in half at the limit is dropped entirely. Text within the limit is returned
// unchanged.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := runes[:limit]

	if !unicode.IsSpace(runes[limit]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}

	return -1
}
