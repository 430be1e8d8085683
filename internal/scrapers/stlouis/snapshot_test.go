package stlouis

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadDocument(t *testing.T, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	require.NoError(t, err)
	return doc
}

func TestParseSnapshot(t *testing.T) {
	contents, err := os.ReadFile("testdata/dashboard.html")
	require.NoError(t, err)

	snapshot, err := ParseSnapshot(loadDocument(t, string(contents)), "https://example.com/by-day", "2022-01-31")
	require.NoError(t, err)

	require.Equal(t, 1234, snapshot.Total)
	require.Equal(t, "https://example.com/by-day", snapshot.URL)
	require.Equal(t, "2022-01-31", snapshot.Date)
	require.Equal(t, map[string]int{"Male": 1100, "Female": 134}, snapshot.Sex)
	require.Equal(t, map[string]int{"Black": 1000, "White": 234}, snapshot.Race)
	require.Equal(t, map[string]int{"Felony": 1200, "Misdemeanor": 34}, snapshot.Offense)
	require.Equal(t, map[string]int{"18 - 24": 300, "25 - 34": 934}, snapshot.AgeGroup)
	require.Equal(t, map[string]int{
		"St. Louis City Justice Center":         800,
		"St. Louis Medium Security Institution": 434,
	}, snapshot.Facility)
}

func TestParseSnapshotErrors(t *testing.T) {
	contents, err := os.ReadFile("testdata/dashboard.html")
	require.NoError(t, err)
	page := string(contents)

	table := []struct {
		name     string
		page     string
		expected error
	}{
		{
			name:     "no total",
			page:     strings.Replace(page, `class="stat-number"`, `class="stat"`, 1),
			expected: ErrMissingTotal,
		},
		{
			name:     "unparsable total",
			page:     strings.Replace(page, "1,234", "n/a", 1),
			expected: ErrMissingTotal,
		},
		{
			name:     "missing table",
			page:     strings.Replace(page, `id="RaceTable"`, `id="Other"`, 1),
			expected: ErrMissingTable,
		},
		{
			name:     "short row",
			page:     strings.Replace(page, "<td>134</td><td>11%</td>", "<td>134</td>", 1),
			expected: ErrMalformedRow,
		},
		{
			name:     "unparsable count",
			page:     strings.Replace(page, "<td>434</td>", "<td>many</td>", 1),
			expected: ErrMalformedRow,
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			_, err := ParseSnapshot(loadDocument(t, row.page), "", "")
			require.ErrorIs(t, err, row.expected)
		})
	}
}
