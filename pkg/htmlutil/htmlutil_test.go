package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<a href="reports/apr22.pdf" aria-label="April 2022 Report">  April
	2022 </a>
<a href="https://example.com/other.PDF?x=1" target="_blank">Other</a>
<a href="">empty</a>
<a>no href</a>
<a href="index.html">Home</a>
</body></html>`

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	base, err := url.Parse("http://www.dc.state.fl.us/pub/jails/index.html")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), base, doc.Find("a"))
	require.Len(t, anchors, 3)

	require.Equal(t, Anchor{
		Name:      "April 2022",
		Href:      "http://www.dc.state.fl.us/pub/jails/reports/apr22.pdf",
		AriaLabel: "April 2022 Report",
	}, anchors[0])
	require.Equal(t, "_blank", anchors[1].Target)
	require.Equal(t, "https://example.com/other.PDF?x=1", anchors[1].Href)

	require.True(t, anchors[0].HasExtension(".pdf"))
	require.True(t, anchors[1].HasExtension(".pdf"))
	require.False(t, anchors[2].HasExtension(".pdf"))
}

func TestGetAnchorsWithoutBase(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), nil, doc.Find("a"))
	require.Equal(t, "reports/apr22.pdf", anchors[0].Href)
}

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  April   2022\n", expected: "April 2022"},
		{input: "St. Louis\u0000 City\tJail", expected: "St. Louis City Jail"},
		{input: "April\u00a02022 Report", expected: "April 2022 Report"},
		{input: "St.\u00a0Louis \u00a0City\u2003Jail", expected: "St. Louis City Jail"},
		{input: "\u00a0", expected: ""},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}
