package tax

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fileTable is the on-disk form of a bracket table:
//
//	brackets:
//	  - {lower: 0, upper: 150000, rate: 0, base_tax: 0}
//	  - {lower: 150000, rate: 0.05, base_tax: 0}   # no upper: unbounded
type fileTable struct {
	Brackets []fileBracket `yaml:"brackets"`
}

type fileBracket struct {
	Lower   string `yaml:"lower"`
	Upper   string `yaml:"upper,omitempty"`
	Rate    string `yaml:"rate"`
	BaseTax string `yaml:"base_tax"`
}

// LoadTable reads and validates a bracket table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading bracket table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML bracket table.
func ParseTable(data []byte) (Table, error) {
	var ft fileTable
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return Table{}, fmt.Errorf("parsing bracket table: %w", err)
	}

	brackets := make([]Bracket, 0, len(ft.Brackets))
	for i, fb := range ft.Brackets {
		b, err := fb.toBracket()
		if err != nil {
			return Table{}, fmt.Errorf("%w: bracket %d: %w", ErrInvalidTable, i, err)
		}
		brackets = append(brackets, b)
	}
	return NewTable(brackets)
}

func (fb fileBracket) toBracket() (Bracket, error) {
	var b Bracket
	var err error
	if b.Lower, err = parseField("lower", fb.Lower); err != nil {
		return b, err
	}
	if b.Rate, err = parseField("rate", fb.Rate); err != nil {
		return b, err
	}
	if b.BaseTax, err = parseField("base_tax", fb.BaseTax); err != nil {
		return b, err
	}
	if fb.Upper == "" {
		b.Unbounded = true
		return b, nil
	}
	b.Upper, err = parseField("upper", fb.Upper)
	return b, err
}

func parseField(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", name, value, err)
	}
	return d, nil
}
