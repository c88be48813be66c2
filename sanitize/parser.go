package sanitize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FragmentParser turns a fragment of untrusted markup into a parse
// tree. Implementations must not panic on malformed input; returning
// an error makes the sanitizer fall back to escaping the fragment.
type FragmentParser interface {
	ParseFragment(input string) ([]*html.Node, error)
}

// netHTMLParser is the default FragmentParser. It parses in a body
// context, the way a browser parses innerHTML.
type netHTMLParser struct{}

func (netHTMLParser) ParseFragment(input string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(input), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
}
