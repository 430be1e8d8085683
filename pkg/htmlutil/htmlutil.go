package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("jailpop.pkg.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Anchor is an <a> element with the attributes the report indexes care about.
// Href is resolved against the page url when one is given.
type Anchor struct {
	Name      string
	Href      string
	AriaLabel string
	Target    string
}

// HasExtension reports whether the path of the link ends in ext (case-insensitive),
// query strings and fragments are ignored.
func (a Anchor) HasExtension(ext string) bool {
	p := a.Href
	link, err := url.Parse(a.Href)
	if err == nil {
		p = link.Path
	}
	return strings.EqualFold(path.Ext(p), ext)
}

// CleanText turns every unicode space (including &nbsp;) into a single space
// and strips non printable characters.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// GetAnchors collects every anchor in the selection that has a parsable href.
// `base` may be nil, in which case hrefs are kept as written.
func GetAnchors(ctx context.Context, base *url.URL, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" {
			continue
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		linkStr := link.String()
		anchor := Anchor{
			Name:      CleanText(GetText(n)),
			Href:      linkStr,
			AriaLabel: CleanText(attr(n, "aria-label")),
			Target:    attr(n, "target"),
		}
		anchors = append(anchors, anchor)

		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", anchor.Name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}
