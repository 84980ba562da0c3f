package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed ReadTime assumes.
const WordsPerMinute = 200

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed to single spaces.
func PlainText(fragment []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("render: parse html: %w", err)
	}
	doc.Find("script,style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// ReadTime estimates reading minutes for text, never less than one.
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
