package table

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Kind identifies table documents in the wire format.
const Kind = "table"

// ErrMissingRows indicates a serialized table carries no "rows" field.
var ErrMissingRows = errors.New("serialized table has no rows field")

// ErrWrongKind indicates a document declared a kind other than "table".
var ErrWrongKind = errors.New("document is not a table")

// wireTable mirrors the JSON representation. The "kind" and "version" fields
// are optional on input and always written on output. "primary key" keeps
// its historical space.
type wireTable struct {
	Kind       string          `json:"kind,omitempty"`
	Version    *int            `json:"version,omitempty"`
	Name       string          `json:"name,omitempty"`
	Comment    string          `json:"comment,omitempty"`
	Columns    []string        `json:"columns,omitempty"`
	PrimaryKey string          `json:"primary key,omitempty"`
	Rows       [][]interface{} `json:"rows"`
}

// FromJSON constructs a Table from its JSON representation.
func FromJSON(data []byte) (*Table, error) {
	var w wireTable
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decode table")
	}
	return fromWire(w)
}

// Decode constructs a Table from JSON data read from r.
func Decode(r io.Reader) (*Table, error) {
	var w wireTable
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(err, "decode table")
	}
	return fromWire(w)
}

func fromWire(w wireTable) (*Table, error) {
	if w.Kind != "" && w.Kind != Kind {
		return nil, errors.Wrapf(ErrWrongKind, "kind %q", w.Kind)
	}
	if w.Rows == nil {
		return nil, ErrMissingRows
	}

	def := Definition{
		Name:       w.Name,
		Comment:    w.Comment,
		Columns:    w.Columns,
		PrimaryKey: w.PrimaryKey,
		Rows:       w.Rows,
	}
	if w.Version != nil {
		def.Version = *w.Version
	}
	return New(def)
}

// Compact returns the compact JSON representation of the table. Fields are
// written in a fixed order: kind, version, name, comment, columns,
// primary key, rows.
func (t *Table) Compact() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.write(&buf, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON satisfies json.Marshaler with the compact representation.
func (t *Table) MarshalJSON() ([]byte, error) {
	return t.Compact()
}

// UnmarshalJSON satisfies json.Unmarshaler.
func (t *Table) UnmarshalJSON(data []byte) error {
	decoded, err := FromJSON(data)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

// String returns a pretty printed JSON representation of the table with one
// row per line.
func (t *Table) String() string {
	var buf bytes.Buffer
	if err := t.write(&buf, "\n  ", " "); err != nil {
		return "<invalid table: " + err.Error() + ">"
	}
	return buf.String()
}

// write emits the wire format. sep separates fields ("" for compact) and
// pad follows the colon of each field.
func (t *Table) write(buf *bytes.Buffer, sep, pad string) error {
	field := func(name string, first bool) {
		if !first {
			buf.WriteByte(',')
		}
		buf.WriteString(sep)
		b, _ := json.Marshal(name)
		buf.Write(b)
		buf.WriteByte(':')
		buf.WriteString(pad)
	}

	buf.WriteByte('{')

	field("kind", true)
	buf.WriteString(`"` + Kind + `"`)

	field("version", false)
	buf.WriteString(strconv.Itoa(t.version))

	if t.name != "" {
		field("name", false)
		b, err := json.Marshal(t.name)
		if err != nil {
			return err
		}
		buf.Write(b)
	}

	if t.comment != "" {
		field("comment", false)
		b, err := json.Marshal(t.comment)
		if err != nil {
			return err
		}
		buf.Write(b)
	}

	field("columns", false)
	b, err := json.Marshal(t.columns)
	if err != nil {
		return err
	}
	buf.Write(b)

	if t.pk != "" {
		field("primary key", false)
		b, err := json.Marshal(t.pk)
		if err != nil {
			return err
		}
		buf.Write(b)
	}

	field("rows", false)
	if len(t.rows) == 0 {
		buf.WriteString("[]")
	} else {
		buf.WriteByte('[')
		for i, r := range t.rows {
			if i > 0 {
				buf.WriteByte(',')
				if sep != "" {
					buf.WriteString(sep + "  ")
				}
			}
			b, err := json.Marshal(r)
			if err != nil {
				return err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
	}

	if sep != "" {
		buf.WriteString("\n")
	}
	buf.WriteByte('}')

	return nil
}
