package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseMonthYear(t *testing.T) {
	testCases := []struct {
		label    string
		expected string
	}{
		{label: "April 2022", expected: "2022-04"},
		{label: "Apr 2022", expected: "2022-04"},
		{label: "april 2022", expected: "2022-04"},
		{label: "  December   1999 ", expected: "1999-12"},
		{label: "Sept 2019", expected: "2019-09"},
		{label: "Sep 2019", expected: "2019-09"},
	}

	for _, test := range testCases {
		key, err := ParseMonthYear(test.label)
		require.NoError(t, err, test.label)
		require.Equal(t, test.expected, key.String())
	}
}

func TestParseMonthYearFailures(t *testing.T) {
	labels := []string{
		"",
		"April",
		"Foo 2022",
		"April twenty",
		"April 22",
		"April 2022 extra",
		"April 20225",
	}

	for _, label := range labels {
		_, err := ParseMonthYear(label)
		require.ErrorIs(t, err, ErrUnrecognized, label)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, label, parseErr.Input)
	}
}

func TestParseReportLabel(t *testing.T) {
	testCases := []struct {
		label    string
		expected string
	}{
		{label: "april 2022 report", expected: "2022-04"},
		{label: "April 2022 Report", expected: "2022-04"},
		{label: "Report Jan 2021", expected: "2021-01"},
	}

	for _, test := range testCases {
		key, err := ParseReportLabel(test.label)
		require.NoError(t, err)
		require.Equal(t, test.expected, key.String())
	}

	_, err := ParseReportLabel("annual report")
	require.ErrorIs(t, err, ErrUnrecognized)
}

func TestParseTCJSHref(t *testing.T) {
	testCases := []struct {
		href     string
		expected string
	}{
		{
			href:     "https://www.tcjs.state.tx.us/wp-content/uploads/2019/06/Abbreviated-Pop-Rpt-May-2019.pdf",
			expected: "2019-05",
		},
		{
			href:     "https://www.tcjs.state.tx.us/wp-content/uploads/2019/10/AbbreviatedPopReport_Sept_2019.pdf",
			expected: "2019-09",
		},
		{
			href:     "https://www.tcjs.state.tx.us/wp-content/uploads/2020/01/Abbreviated-Pop-Rpt-December-20195.pdf",
			expected: "2019-12",
		},
		{
			href:     "https://www.tcjs.state.tx.us/wp-content/uploads/2021/03/AbbreRptCurrent.pdf",
			expected: "2021-03",
		},
		{
			href:     "https://www.tcjs.state.tx.us/wp-content/uploads/2021/11/AbbreRptCurrent.pdf?ver=2",
			expected: "2021-11",
		},
	}

	for _, test := range testCases {
		key, err := ParseTCJSHref(test.href)
		require.NoError(t, err, test.href)
		require.Equal(t, test.expected, key.String())
	}
}

func TestParseTCJSHrefFailures(t *testing.T) {
	hrefs := []string{
		"https://www.tcjs.state.tx.us/wp-content/uploads/2019/06/PopulationSummary.pdf",
		"https://www.tcjs.state.tx.us/wp-content/uploads/2019/06/Abbreviated-Pop-Rpt-Smarch-2019.pdf",
		"https://www.tcjs.state.tx.us/wp-content/uploads/2019/06/Abbreviated.pdf",
		"https://www.tcjs.state.tx.us/wp-content/uploads/latest/AbbreRptCurrent.pdf",
		"https://www.tcjs.state.tx.us/wp-content/uploads/2021/13/AbbreRptCurrent.pdf",
		"https://www.tcjs.state.tx.us/wp-content/uploads/20215/03/AbbreRptCurrent.pdf",
		"https://www.tcjs.state.tx.us/wp-content/uploads/2019/06/Abbreviated-Pop-Rpt-May-201.pdf",
	}

	for _, href := range hrefs {
		_, err := ParseTCJSHref(href)
		require.ErrorIs(t, err, ErrUnrecognized, href)
	}
}

func TestKeys(t *testing.T) {
	require.Equal(t, "2022-04-30", LastDayOfMonth(2022, time.April).String())
	require.Equal(t, "2020-02-29", LastDayOfMonth(2020, time.February).String())
	require.Equal(t, "2021-02-28", LastDayOfMonth(2021, time.February).String())
	require.Equal(t, "2000-12-31", LastDayOfMonth(2000, time.December).String())

	require.Equal(t, "2022-04.pdf", Month(2022, time.April).Filename(".pdf"))
	require.Equal(t, time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC), Month(2022, time.April).Time())
	require.Equal(t, time.Date(2022, time.April, 30, 0, 0, 0, 0, time.UTC), LastDayOfMonth(2022, time.April).Time())
}
