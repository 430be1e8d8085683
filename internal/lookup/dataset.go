package lookup

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMissingColumn is returned when the header lacks a column a table needs.
	ErrMissingColumn = errors.New("missing required column")
	// ErrShortRow is returned for data rows with fewer fields than the header.
	ErrShortRow = errors.New("row has fewer fields than the header")
)

// Record is one row of the dataset addressed by column name.
type Record map[string]string

// Dataset is a tab separated file read fully into memory, rows in file order.
type Dataset struct {
	Columns []string
	Rows    []Record
}

func (d Dataset) hasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Require fails with ErrMissingColumn for the first column not in the header.
func (d Dataset) Require(columns ...string) error {
	for _, c := range columns {
		if !d.hasColumn(c) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

func ReadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses tab separated values with a header row.
func Read(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, errors.New("dataset is empty")
	}
	if err != nil {
		return Dataset{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	dataset := Dataset{Columns: header}
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, err
		}
		line++

		if len(fields) < len(header) {
			return Dataset{}, fmt.Errorf("line %d: %w (%d < %d)", line, ErrShortRow, len(fields), len(header))
		}
		record := make(Record, len(header))
		for i, column := range header {
			record[column] = fields[i]
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	return dataset, nil
}
