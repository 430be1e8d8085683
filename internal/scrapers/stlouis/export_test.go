package stlouis

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"jailpop/internal/components/telemetry"
	"jailpop/pkg/osutil"

	"github.com/stretchr/testify/require"
)

func writeSnapshots(t *testing.T, dir string, snapshots ...Snapshot) {
	for _, snapshot := range snapshots {
		require.NoError(t, osutil.WriteJSON(filepath.Join(dir, snapshot.Date+".json"), snapshot))
	}
}

func TestFlatten(t *testing.T) {
	dir := t.TempDir()
	facilities := map[string]int{
		"St. Louis City Justice Center":         800,
		"St. Louis Medium Security Institution": 434,
	}
	// written out of order on purpose
	writeSnapshots(t, dir,
		Snapshot{Date: "2020-03-31", URL: "https://example.com/?date=03/31/2020&race=all", Facility: facilities},
		Snapshot{Date: "2020-01-31", URL: "https://example.com/?date=01/31/2020&race=all", Facility: facilities},
		Snapshot{Date: "2020-02-29", URL: "https://example.com/?date=02/29/2020&race=all", Facility: map[string]int{
			"St. Louis City Justice Center": 790,
			"Workhouse Annex":               12,
		}},
	)
	// not a snapshot
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	snapshots, err := ReadSnapshots(dir)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	require.Equal(t, "2020-01-31", snapshots[0].Date)
	require.Equal(t, "2020-03-31", snapshots[2].Date)

	tel := &telemetry.Recorder{}
	export := Flatten(tel, snapshots, DefaultFacilityIDs)
	require.Len(t, export.Rows, 6)

	require.Equal(t, Row{
		ID:           8155,
		Facility:     "St. Louis City Justice Center",
		SnapshotDate: "2020-01-31",
		Total:        800,
		SourceURL:    "https://example.com/?date=01/31/2020&race=all",
	}, export.Rows[0])
	require.Equal(t, 8156, export.Rows[1].ID)

	require.Equal(t, "Workhouse Annex", export.Rows[3].Facility)
	require.Zero(t, export.Rows[3].ID)

	require.Len(t, export.Unmapped, 1)
	require.Equal(t, "Workhouse Annex", export.Unmapped[0].Name)
	require.Equal(t, 1, export.Unmapped[0].Rows)
	require.ErrorIs(t, export.Check(), ErrUnmappedFacilities)

	warnings := tel.Filter(telemetry.KindWarning)
	require.Len(t, warnings, 1)
	require.Equal(t, "stlouis."+report_export_unmapped, warnings[0].ID)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, export.Rows))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	require.Equal(t, Header, records[0])
	require.Equal(t, []string{"8155", "2020-01-31", "800", "https://example.com/?date=01/31/2020&race=all"}, records[1])
	require.Equal(t, []string{"", "2020-02-29", "12", "https://example.com/?date=02/29/2020&race=all"}, records[4])
}

func TestFlattenAllMapped(t *testing.T) {
	export := Flatten(&telemetry.Recorder{}, []Snapshot{
		{Date: "2020-01-31", Facility: map[string]int{"St. Louis City Jail": 5}},
	}, DefaultFacilityIDs)
	require.NoError(t, export.Check())
	require.Equal(t, 8125, export.Rows[0].ID)
}

func TestClosestFacility(t *testing.T) {
	table := []struct {
		name     string
		expected string
	}{
		{name: "St Louis City Justice Ctr", expected: "St. Louis City Justice Center"},
		{name: "ST. LOUIS MEDIUM SECURITY INST.", expected: "St. Louis Medium Security Institution"},
		{name: "St. Louis City Jail (old)", expected: "St. Louis City Jail"},
	}

	for _, row := range table {
		u := closestFacility(row.name, DefaultFacilityIDs)
		require.Equal(t, row.expected, u.Suggestion, row.name)
		require.Greater(t, u.Similarity, 0.8)
	}
}

func TestReadSnapshotsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2020-01-31.json"), []byte("{"), 0644))
	_, err := ReadSnapshots(dir)
	require.Error(t, err)
}
