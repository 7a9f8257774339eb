// internal/richtext/formatting.go
package richtext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Formatting is a property AssertFormatting can check.
type Formatting string

const (
	Bold          Formatting = "bold"
	Italic        Formatting = "italic"
	LeftAligned   Formatting = "left aligned"
	RightAligned  Formatting = "right aligned"
	CenterAligned Formatting = "center aligned"
	Justified     Formatting = "justified"
)

// Formattings lists the supported kinds in the order they are documented.
var Formattings = []Formatting{Bold, Italic, LeftAligned, RightAligned, CenterAligned, Justified}

var alignments = map[Formatting]string{
	LeftAligned:   "left",
	RightAligned:  "right",
	CenterAligned: "center",
	Justified:     "justify",
}

// ParseFormatting maps a step phrase such as "right aligned" to a Formatting.
func ParseFormatting(s string) (Formatting, error) {
	f := Formatting(strings.Join(strings.Fields(strings.ToLower(s)), " "))
	for _, known := range Formattings {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormatting, s)
}

// CheckFormatting parses markup and checks the first element whose leading
// text node contains text (case-insensitive) for the given formatting.
func CheckFormatting(markup, text string, negate bool, kind Formatting, opts Options) error {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to parse field markup: %w", err)
	}

	node := firstWrapping(doc, text)
	if node == nil {
		return &NotFoundError{Kind: "text", Locator: text}
	}

	switch kind {
	case Bold:
		return expect("tag wrapping "+quote(text), "strong", node.Data, negate)
	case Italic:
		return expect("tag wrapping "+quote(text), "em", node.Data, negate)
	case LeftAligned, RightAligned, CenterAligned, Justified:
		if opts.LegacyAlignment {
			return legacyAlignment(node, text, negate, kind)
		}
		return expect("text-align of element wrapping "+quote(text), alignments[kind], textAlign(node), negate)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormatting, string(kind))
	}
}

// firstWrapping returns the first element in document order whose first
// child is a text node containing text, ignoring case. An empty text never
// matches.
func firstWrapping(doc *html.Node, text string) *html.Node {
	if text == "" {
		return nil
	}
	needle := strings.ToLower(text)
	for _, n := range htmlquery.Find(doc, "//*") {
		first := n.FirstChild
		if first != nil && first.Type == html.TextNode && strings.Contains(strings.ToLower(first.Data), needle) {
			return n
		}
	}
	return nil
}

// legacyAlignment compares the literal style attribute. "left aligned" is
// only checked when a style attribute is present.
func legacyAlignment(node *html.Node, text string, negate bool, kind Formatting) error {
	style := htmlquery.SelectAttr(node, "style")
	if kind == LeftAligned && style == "" {
		return nil
	}
	want := fmt.Sprintf("text-align: %s;", alignments[kind])
	return expect("style of element wrapping "+quote(text), want, style, negate)
}

// textAlign returns the effective text-align declared in the element's
// style attribute. The last declaration wins; no declaration means "left".
func textAlign(node *html.Node) string {
	align := "left"
	for _, decl := range strings.Split(htmlquery.SelectAttr(node, "style"), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(prop), "text-align") {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important")))
		switch value {
		case "start":
			value = "left"
		case "end":
			value = "right"
		}
		if value != "" {
			align = value
		}
	}
	return align
}

func expect(subject, want, got string, negate bool) error {
	if (want == got) != negate {
		return nil
	}
	return &AssertionMismatchError{Subject: subject, Expected: want, Actual: got, Negated: negate}
}

func quote(s string) string { return fmt.Sprintf("%q", s) }

// containsFold reports whether needle occurs literally in haystack, ignoring
// Unicode case.
func containsFold(haystack, needle string) bool {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(needle)).MatchString(haystack)
}
