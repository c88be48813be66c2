package sanitize

import (
	"fmt"
	stdhtml "html"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy

	markdownOnce      sync.Once
	markdownConverter *md.Converter
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		strictPolicy.AddSpaceWhenStrippingTag(true)
	})
	return strictPolicy
}

// Text reduces markup to plain text for snippets, titles and terminal
// output. All elements are stripped, entities are decoded and runs of
// whitespace collapse to single spaces.
func Text(input string) string {
	if input == "" {
		return ""
	}
	flat := stdhtml.UnescapeString(strict().Sanitize(input))
	return strings.Join(strings.Fields(flat), " ")
}

// Markdown sanitizes input and converts the surviving markup to
// Markdown, for surfaces that render text rather than HTML.
func Markdown(input string) (string, error) {
	markdownOnce.Do(func() {
		markdownConverter = md.NewConverter("", true, nil)
	})
	clean := Fragment(input)
	out, err := markdownConverter.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return out, nil
}
