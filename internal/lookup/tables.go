package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OneToOne maps every value of From to the value of To on the same row,
// the last row wins on duplicate keys.
type OneToOne struct {
	From string
	To   string
}

func (t OneToOne) Filename() string {
	return strings.ToLower(fmt.Sprintf("%s_to_%s.json", t.From, t.To))
}

func (t OneToOne) Build(d Dataset) (map[string]string, error) {
	err := d.Require(t.From, t.To)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(d.Rows))
	for _, row := range d.Rows {
		out[row[t.From]] = row[t.To]
	}
	return out, nil
}

// OneToMany groups rows by Key, each row is reduced to Fields.
type OneToMany struct {
	Key    string
	Fields []string
}

func (t OneToMany) Filename() string {
	return strings.ToLower(fmt.Sprintf("%s_to_many.json", t.Key))
}

func (t OneToMany) Build(d Dataset) (map[string][]Partial, error) {
	err := d.Require(t.Key)
	if err != nil {
		return nil, err
	}
	err = d.Require(t.Fields...)
	if err != nil {
		return nil, err
	}

	out := map[string][]Partial{}
	for _, row := range d.Rows {
		partial := make(Partial, len(t.Fields))
		for i, field := range t.Fields {
			partial[i] = Field{Name: field, Value: row[field]}
		}
		key := row[t.Key]
		out[key] = append(out[key], partial)
	}
	return out, nil
}

type Field struct {
	Name  string
	Value string
}

// Partial is a subset of a row that marshals as a JSON object with its
// fields in declaration order.
type Partial []Field

func (p Partial) Get(name string) (string, bool) {
	for _, f := range p {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (p Partial) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		err := writeString(&buf, f.Name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		err = writeString(&buf, f.Value)
		if err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(s)
	if err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

var (
	OneToOneTables = []OneToOne{
		{From: "FACID", To: "ID"},
		{From: "FACID", To: "JURISID"},
		{From: "FACID", To: "GID"},
	}
	OneToManyTables = []OneToMany{
		{Key: "JURISID", Fields: []string{"ID", "FACID", "GID", "COUNTY", "FACNAME", "RATED"}},
		{Key: "FACID", Fields: []string{"ID", "JURISID", "GID", "COUNTY", "FACNAME", "RATED"}},
		{Key: "CNTYFIPS", Fields: []string{
			"FACID", "ID", "JURISID", "GID", "COUNTY", "FACSTATE", "RUNAME", "FACNAME", "RATED",
		}},
	}
)
