// Package sanitize rewrites untrusted HTML into markup that is safe
// to embed in a rendered surface. Elements outside the allowlist are
// replaced by their text content, event handlers and inline styles
// are stripped, and link targets must pass safeurl to survive.
package sanitize

import (
	stdhtml "html"
	"html/template"
	"strings"

	"golang.org/x/net/html"

	"herald/safeurl"
)

// Sanitizer applies the allowlist policy to HTML fragments. The zero
// value has no parser and degrades to escaping whole fragments; use
// New for the full policy.
type Sanitizer struct {
	parser FragmentParser
}

// New returns a Sanitizer backed by the default fragment parser.
func New() *Sanitizer {
	return &Sanitizer{parser: netHTMLParser{}}
}

// NewWithParser returns a Sanitizer using a caller-supplied parser.
func NewWithParser(p FragmentParser) *Sanitizer {
	return &Sanitizer{parser: p}
}

var std = New()

// Fragment sanitizes an HTML fragment with the default Sanitizer.
func Fragment(input string) string { return std.Fragment(input) }

// HTML sanitizes input and marks the result safe for html/template.
func HTML(input string) template.HTML { return template.HTML(Fragment(input)) }

// Fragment sanitizes an HTML fragment. Malformed input never causes
// an error: when no parse tree can be produced the whole fragment is
// HTML-escaped instead. The operation is idempotent.
func (s *Sanitizer) Fragment(input string) string {
	if input == "" {
		return ""
	}
	if s.parser == nil {
		return stdhtml.EscapeString(input)
	}
	nodes, err := s.parser.ParseFragment(input)
	if err != nil {
		return stdhtml.EscapeString(input)
	}
	var b strings.Builder
	for _, n := range nodes {
		for _, kept := range sanitizeNode(n) {
			if err := html.Render(&b, kept); err != nil {
				return stdhtml.EscapeString(input)
			}
		}
	}
	return b.String()
}

// sanitizeNode returns the replacement nodes for n: the element
// rebuilt with filtered attributes and sanitized children when it is
// allowed, a single text node holding its text content when it is
// not, nothing for comments and doctypes. Children of a removed
// element are never revisited; the whole subtree collapses to text.
func sanitizeNode(n *html.Node) []*html.Node {
	if n.Type == html.TextNode {
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	}
	if n.Type != html.ElementNode {
		return nil
	}

	if !allowedTags[n.Data] {
		text := textContent(n)
		if text == "" {
			return nil
		}
		return []*html.Node{{Type: html.TextNode, Data: text}}
	}

	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: n.DataAtom,
		Attr:     sanitizeAttributes(n.Data, n.Attr),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for _, kept := range sanitizeNode(c) {
			out.AppendChild(kept)
		}
	}
	return []*html.Node{out}
}

func sanitizeAttributes(tag string, attrs []html.Attribute) []html.Attribute {
	var kept []html.Attribute
	for _, a := range attrs {
		if !attributeAllowed(tag, a) {
			continue
		}
		kept = append(kept, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if tag == "a" {
		kept = hardenBlankTarget(kept)
	}
	return kept
}

func attributeAllowed(tag string, a html.Attribute) bool {
	if a.Namespace != "" {
		return false
	}
	key := a.Key
	if strings.HasPrefix(key, "on") || key == "style" {
		return false
	}
	allowed := globalAttributes[key] ||
		strings.HasPrefix(key, "data-") ||
		strings.HasPrefix(key, "aria-") ||
		tagAttributes[tag][key]
	if !allowed {
		return false
	}
	if urlAttributes[key] {
		return safeurl.IsSafe(a.Val)
	}
	return true
}

// HardenRel returns the rel value an anchor with the given target
// should carry. Links opening a new browsing context get noopener
// and noreferrer merged in, deduplicated case-insensitively with the
// declared tokens kept in order and case; any other target returns
// rel unchanged.
func HardenRel(target, rel string) string {
	if !strings.EqualFold(target, "_blank") {
		return rel
	}
	return mergeRelTokens(rel)
}

// hardenBlankTarget ensures anchors opening a new browsing context
// carry rel="noopener noreferrer", merging with and deduplicating any
// rel tokens already present.
func hardenBlankTarget(attrs []html.Attribute) []html.Attribute {
	opensBlank := false
	for _, a := range attrs {
		if a.Key == "target" && strings.EqualFold(a.Val, "_blank") {
			opensBlank = true
			break
		}
	}
	if !opensBlank {
		return attrs
	}
	for i, a := range attrs {
		if a.Key == "rel" {
			attrs[i].Val = mergeRelTokens(a.Val)
			return attrs
		}
	}
	return append(attrs, html.Attribute{Key: "rel", Val: "noopener noreferrer"})
}

func mergeRelTokens(existing string) string {
	seen := make(map[string]bool)
	var merged []string
	for _, tok := range strings.Fields(existing) {
		low := strings.ToLower(tok)
		if seen[low] {
			continue
		}
		seen[low] = true
		merged = append(merged, tok)
	}
	for _, required := range []string{"noopener", "noreferrer"} {
		if !seen[required] {
			merged = append(merged, required)
		}
	}
	return strings.Join(merged, " ")
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
