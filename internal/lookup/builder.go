// Package lookup turns the facility dataset into one-to-one and one-to-many
// JSON lookup files.
package lookup

import (
	"fmt"
	"path/filepath"

	"jailpop/pkg/osutil"
)

// Output is a lookup file ready to be written.
type Output struct {
	Filename string
	Value    any
	Keys     int
}

// BuildAll builds every table, no file is produced if any table fails.
func BuildAll(d Dataset) ([]Output, error) {
	var outputs []Output
	for _, table := range OneToOneTables {
		value, err := table.Build(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", table.Filename(), err)
		}
		outputs = append(outputs, Output{Filename: table.Filename(), Value: value, Keys: len(value)})
	}
	for _, table := range OneToManyTables {
		value, err := table.Build(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", table.Filename(), err)
		}
		outputs = append(outputs, Output{Filename: table.Filename(), Value: value, Keys: len(value)})
	}
	return outputs, nil
}

// WriteAll writes each output as indented JSON into dir.
func WriteAll(dir string, outputs []Output) error {
	for _, out := range outputs {
		err := osutil.WriteJSON(filepath.Join(dir, out.Filename), out.Value)
		if err != nil {
			return fmt.Errorf("write %s: %w", out.Filename, err)
		}
	}
	return nil
}
