package table

import (
	"io"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// yamlTable mirrors the YAML table format.
type yamlTable struct {
	Name       string          `yaml:"name"`
	Comment    string          `yaml:"comment"`
	Columns    []string        `yaml:"columns"`
	PrimaryKey string          `yaml:"primaryKey"`
	Rows       [][]interface{} `yaml:"rows"`
}

// FromYAML constructs a Table from YAML data read from r. The document
// shape is:
//
//	name: emp
//	columns: [empno, name]
//	primaryKey: empno
//	rows:
//	  - [1, alice]
//	  - [2, bob]
func FromYAML(r io.Reader) (*Table, error) {
	var y yamlTable
	if err := yaml.NewDecoder(r).Decode(&y); err != nil {
		return nil, errors.Wrap(err, "decode yaml table")
	}
	if y.Rows == nil {
		return nil, ErrMissingRows
	}

	return New(Definition{
		Name:       y.Name,
		Comment:    y.Comment,
		Columns:    y.Columns,
		PrimaryKey: y.PrimaryKey,
		Rows:       y.Rows,
	})
}
