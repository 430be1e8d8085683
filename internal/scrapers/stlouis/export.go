package stlouis

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"jailpop/internal/components/telemetry"
	"jailpop/pkg/textutil"

	"github.com/antzucaro/matchr"
)

const report_export_unmapped = "export.unmapped"

// ErrUnmappedFacilities is returned by Export.Check when some facility has no id.
var ErrUnmappedFacilities = errors.New("facilities without an id")

// DefaultFacilityIDs maps dashboard facility names to facility ids.
var DefaultFacilityIDs = map[string]int{
	"St. Louis City Justice Center":         8155,
	"St. Louis Medium Security Institution": 8156,
	"St. Louis City Jail":                   8125,
}

// Header of the exported csv.
var Header = []string{"id", "snapshot_date", "total", "source_url"}

// Row is the population of one facility in one snapshot.
type Row struct {
	// ID is 0 when the facility name is not mapped
	ID           int
	Facility     string
	SnapshotDate string
	Total        int
	SourceURL    string
}

func (r Row) record() []string {
	id := ""
	if r.ID != 0 {
		id = strconv.Itoa(r.ID)
	}
	return []string{id, r.SnapshotDate, strconv.Itoa(r.Total), r.SourceURL}
}

// Unmapped is a facility name missing from the id table, with the closest known name.
type Unmapped struct {
	Name       string
	Suggestion string
	Similarity float64
	Rows       int
}

type Export struct {
	Rows     []Row
	Unmapped []Unmapped
}

// Check fails when some rows have no facility id.
func (e Export) Check() error {
	if len(e.Unmapped) == 0 {
		return nil
	}
	names := make([]string, len(e.Unmapped))
	for i, u := range e.Unmapped {
		names[i] = u.Name
	}
	return fmt.Errorf("%w: %q", ErrUnmappedFacilities, names)
}

// ReadSnapshots reads every *.json document in dir, ordered by filename.
func ReadSnapshots(dir string) ([]Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	snapshots := make([]Snapshot, 0, len(paths))
	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var snapshot Snapshot
		err = json.Unmarshal(contents, &snapshot)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// Flatten emits one row per (facility, snapshot), facilities in name order.
func Flatten(tel telemetry.API, snapshots []Snapshot, ids map[string]int) Export {
	tel = telemetry.NewScopedAPI("stlouis", tel)

	var export Export
	unmapped := map[string]int{}
	for _, snapshot := range snapshots {
		facilities := make([]string, 0, len(snapshot.Facility))
		for name := range snapshot.Facility {
			facilities = append(facilities, name)
		}
		sort.Strings(facilities)

		for _, name := range facilities {
			id, ok := ids[name]
			if !ok {
				unmapped[name]++
			}
			export.Rows = append(export.Rows, Row{
				ID:           id,
				Facility:     name,
				SnapshotDate: snapshot.Date,
				Total:        snapshot.Facility[name],
				SourceURL:    snapshot.URL,
			})
		}
	}

	for name, rows := range unmapped {
		u := closestFacility(name, ids)
		u.Rows = rows
		export.Unmapped = append(export.Unmapped, u)
		tel.ReportWarning(report_export_unmapped, name, rows, u.Suggestion)
	}
	sort.Slice(export.Unmapped, func(i, j int) bool {
		return export.Unmapped[i].Name < export.Unmapped[j].Name
	})

	tel.ReportCount("export_rows", int64(len(export.Rows)))
	return export
}

func closestFacility(name string, ids map[string]int) Unmapped {
	u := Unmapped{Name: name}
	normalized := textutil.NormalizeName(name)
	for known := range ids {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(known), false)
		if similarity > u.Similarity || (similarity == u.Similarity && known < u.Suggestion) {
			u.Similarity = similarity
			u.Suggestion = known
		}
	}
	return u
}

// WriteCSV writes the header and every row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	err := writer.Write(Header)
	if err != nil {
		return err
	}
	for _, row := range rows {
		err = writer.Write(row.record())
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
