package stlouis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"jailpop/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrMissingTable is returned when the dashboard page lacks one of the expected tables.
	ErrMissingTable = errors.New("missing table")
	ErrMalformedRow = errors.New("malformed table row")
	ErrMissingTotal = errors.New("missing total population")
)

// Snapshot is the population of the city's jails on a given day.
type Snapshot struct {
	Total    int            `json:"total"`
	URL      string         `json:"url"`
	Date     string         `json:"date"`
	Sex      map[string]int `json:"sex"`
	Race     map[string]int `json:"race"`
	Offense  map[string]int `json:"offense"`
	AgeGroup map[string]int `json:"age_group"`
	Facility map[string]int `json:"facility"`
}

const (
	tableSex      = "SexTable"
	tableRace     = "RaceTable"
	tableOffense  = "OffenseTable"
	tableAgeGroup = "AgeGroupTable"
	tableFacility = "PopulationbyFacilityTable"
)

func parseCount(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.Atoi(s)
}

// parseTable reads a breakdown table whose body rows are (label, count, percent).
func parseTable(doc *goquery.Document, id string) (map[string]int, error) {
	table := doc.Find("table#" + id)
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTable, id)
	}

	out := map[string]int{}
	var rowErr error
	table.Find("tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() != 3 {
			rowErr = fmt.Errorf("%w: %s row %d has %d cells", ErrMalformedRow, id, i, cells.Length())
			return false
		}
		label := htmlutil.CleanText(cells.Eq(0).Text())
		count, err := parseCount(cells.Eq(1).Text())
		if err != nil {
			rowErr = fmt.Errorf("%w: %s row %d: %w", ErrMalformedRow, id, i, err)
			return false
		}
		out[label] = count
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return out, nil
}

// ParseSnapshot extracts the total and every breakdown table from a dashboard page.
func ParseSnapshot(doc *goquery.Document, link, date string) (Snapshot, error) {
	stat := doc.Find("div.stat-number").First()
	if stat.Length() == 0 {
		return Snapshot{}, ErrMissingTotal
	}
	total, err := parseCount(stat.Text())
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMissingTotal, err)
	}

	snapshot := Snapshot{Total: total, URL: link, Date: date}
	tables := []struct {
		id  string
		out *map[string]int
	}{
		{id: tableSex, out: &snapshot.Sex},
		{id: tableRace, out: &snapshot.Race},
		{id: tableOffense, out: &snapshot.Offense},
		{id: tableAgeGroup, out: &snapshot.AgeGroup},
		{id: tableFacility, out: &snapshot.Facility},
	}
	for _, t := range tables {
		parsed, err := parseTable(doc, t.id)
		if err != nil {
			return Snapshot{}, err
		}
		*t.out = parsed
	}

	return snapshot, nil
}
