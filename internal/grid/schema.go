package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies how a column is edited and rendered.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindLookup
	KindImage
)

// String returns the schema name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindLookup:
		return "lookup"
	case KindImage:
		return "image"
	default:
		return "text"
	}
}

// parseKind decodes a kind name. "combo" is accepted as an alias for lookup.
func parseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return KindText, nil
	case "number":
		return KindNumber, nil
	case "lookup", "combo":
		return KindLookup, nil
	case "image":
		return KindImage, nil
	}
	return KindText, fmt.Errorf("unknown column kind %q", name)
}

// Role marks a number column as an input or output of the amount calculation.
type Role int

const (
	RoleNone Role = iota
	RoleQuantity
	RoleRate
	RoleAmount
)

// LookupEntry is one option of a lookup column's source list.
type LookupEntry struct {
	ID       string
	Name     string
	Rate     *float64
	ImageURL string
}

// ColumnSpec describes one grid column.
type ColumnSpec struct {
	Key      string
	Label    string
	Kind     Kind
	Role     Role
	ReadOnly bool
	Source   []LookupEntry
}

var (
	// ErrEmptyKey is returned when a column has no key.
	ErrEmptyKey = errors.New("column key is empty")
	// ErrDuplicateKey is returned when two columns share a key.
	ErrDuplicateKey = errors.New("duplicate column key")
)

// Schema is an immutable, validated list of columns.
type Schema struct {
	columns []ColumnSpec
	index   map[string]int

	quantity int
	rate     int
	amount   int
	lookup   int
	image    int
}

// NewSchema validates the columns and returns a Schema. Lookup sources are
// copied so later changes to the caller's slices cannot leak in.
func NewSchema(columns ...ColumnSpec) (Schema, error) {
	s := Schema{
		columns:  make([]ColumnSpec, 0, len(columns)),
		index:    make(map[string]int, len(columns)),
		quantity: -1,
		rate:     -1,
		amount:   -1,
		lookup:   -1,
		image:    -1,
	}
	for _, col := range columns {
		col.Key = strings.TrimSpace(col.Key)
		if col.Key == "" {
			return Schema{}, ErrEmptyKey
		}
		if _, exists := s.index[col.Key]; exists {
			return Schema{}, fmt.Errorf("%w: %s", ErrDuplicateKey, col.Key)
		}
		if col.Label == "" {
			col.Label = col.Key
		}
		if col.Kind == KindNumber && col.Role == RoleNone {
			col.Role = inferRole(col.Key)
		}
		col.Source = cloneSource(col.Source)

		pos := len(s.columns)
		s.index[col.Key] = pos
		s.columns = append(s.columns, col)

		switch {
		case col.Kind == KindLookup && s.lookup < 0:
			s.lookup = pos
		case col.Kind == KindImage && s.image < 0:
			s.image = pos
		}
		switch col.Role {
		case RoleQuantity:
			if s.quantity < 0 {
				s.quantity = pos
			}
		case RoleRate:
			if s.rate < 0 {
				s.rate = pos
			}
		case RoleAmount:
			if s.amount < 0 {
				s.amount = pos
			}
		}
	}
	return s, nil
}

// MustSchema is NewSchema for static schemas; it panics on invalid input.
func MustSchema(columns ...ColumnSpec) Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns a copy of the columns in display order.
func (s Schema) Columns() []ColumnSpec {
	out := make([]ColumnSpec, len(s.columns))
	for i, col := range s.columns {
		col.Source = cloneSource(col.Source)
		out[i] = col
	}
	return out
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// Column returns the column with the given key.
func (s Schema) Column(key string) (ColumnSpec, bool) {
	pos, ok := s.index[key]
	if !ok {
		return ColumnSpec{}, false
	}
	return s.columns[pos], true
}

// Transactional reports whether rows contribute to a subtotal, i.e. the
// schema has both a quantity and a rate column.
func (s Schema) Transactional() bool {
	return s.quantity >= 0 && s.rate >= 0
}

func (s Schema) keyAt(pos int) string {
	if pos < 0 || pos >= len(s.columns) {
		return ""
	}
	return s.columns[pos].Key
}

func inferRole(key string) Role {
	switch strings.ToLower(key) {
	case "qty", "quantity":
		return RoleQuantity
	case "rate", "price", "unit_price":
		return RoleRate
	case "amount", "line_total":
		return RoleAmount
	}
	return RoleNone
}

func cloneSource(src []LookupEntry) []LookupEntry {
	if src == nil {
		return nil
	}
	out := make([]LookupEntry, len(src))
	for i, entry := range src {
		if entry.Rate != nil {
			rate := *entry.Rate
			entry.Rate = &rate
		}
		out[i] = entry
	}
	return out
}
