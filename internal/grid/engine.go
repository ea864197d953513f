package grid

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// TaxRate is applied to the subtotal of transactional grids.
const TaxRate = 0.18

// PlaceholderImage is shown when a row has no usable image source.
const PlaceholderImage = "placeholder"

// RowID identifies a row for the lifetime of its engine.
type RowID uint64

// Row is a snapshot of one grid row.
type Row struct {
	ID     RowID
	Values map[string]string
}

// Value returns the raw value for key, or "" when absent.
func (r Row) Value(key string) string {
	return r.Values[key]
}

// Number returns the parsed value for key; unparsable values are 0.
func (r Row) Number(key string) float64 {
	return ParseNumber(r.Values[key])
}

// Totals holds the aggregate of a transactional grid.
type Totals struct {
	Subtotal   float64
	Tax        float64
	GrandTotal float64
}

// Format renders subtotal, tax and grand total with two decimals.
func (t Totals) Format() (subtotal, tax, grand string) {
	return FormatAmount(t.Subtotal), FormatAmount(t.Tax), FormatAmount(t.GrandTotal)
}

// Option is a lookup entry as offered for one row.
type Option struct {
	Entry    LookupEntry
	Selected bool
}

// LineItem is a row ready for submission.
type LineItem struct {
	Row      RowID
	LookupID string
	Quantity float64
	Rate     float64
	Amount   float64
}

type row struct {
	id     RowID
	values map[string]string
}

// Engine owns a schema and its rows.
type Engine struct {
	schema Schema
	rows   []row
	nextID RowID
	totals Totals
	dirty  bool
}

// New binds a schema to an empty engine.
func New(schema Schema) *Engine {
	return &Engine{schema: schema, nextID: 1}
}

// Schema returns the engine's schema.
func (e *Engine) Schema() Schema {
	return e.schema
}

// Len returns the number of rows.
func (e *Engine) Len() int {
	return len(e.rows)
}

// AddRow appends a row seeded from initial and returns its id. Keys that are
// not part of the schema are ignored.
func (e *Engine) AddRow(initial map[string]string) RowID {
	values := make(map[string]string, e.schema.Len())
	for _, col := range e.schema.columns {
		values[col.Key] = strings.TrimSpace(initial[col.Key])
	}
	id := e.nextID
	e.nextID++
	e.rows = append(e.rows, row{id: id, values: values})
	e.markDirty()
	return id
}

// RemoveRow deletes the row with the given id. It reports whether a row was
// removed.
func (e *Engine) RemoveRow(id RowID) bool {
	pos := e.position(id)
	if pos < 0 {
		return false
	}
	e.rows = append(e.rows[:pos], e.rows[pos+1:]...)
	e.markDirty()
	return true
}

// Set stores value in the given cell. Unknown rows or keys, read-only columns
// and image columns are left untouched and Set returns false.
func (e *Engine) Set(id RowID, key, value string) bool {
	pos := e.position(id)
	if pos < 0 {
		return false
	}
	col, ok := e.schema.Column(key)
	if !ok || col.ReadOnly || col.Kind == KindImage || col.Role == RoleAmount {
		return false
	}
	e.rows[pos].values[key] = strings.TrimSpace(value)
	e.markDirty()
	return true
}

// Reset removes all rows. Row ids are not reused.
func (e *Engine) Reset() {
	e.rows = nil
	e.markDirty()
}

// Rows returns a snapshot of all rows in order.
func (e *Engine) Rows() []Row {
	out := make([]Row, len(e.rows))
	for i, r := range e.rows {
		out[i] = snapshot(r)
	}
	return out
}

// Row returns a snapshot of one row.
func (e *Engine) Row(id RowID) (Row, bool) {
	pos := e.position(id)
	if pos < 0 {
		return Row{}, false
	}
	return snapshot(e.rows[pos]), true
}

// Totals returns the totals of the last recompute.
func (e *Engine) Totals() Totals {
	e.settle()
	return e.totals
}

// Options lists the source entries of a lookup column for one row, marking the
// row's current value as selected.
func (e *Engine) Options(id RowID, key string) []Option {
	col, ok := e.schema.Column(key)
	if !ok || col.Kind != KindLookup {
		return nil
	}
	pos := e.position(id)
	if pos < 0 {
		return nil
	}
	current := e.rows[pos].values[key]
	out := make([]Option, len(col.Source))
	for i, entry := range col.Source {
		out[i] = Option{Entry: entry, Selected: current != "" && entry.ID == current}
	}
	return out
}

// Match returns the lookup entry selected in a row, if any.
func (e *Engine) Match(id RowID) (LookupEntry, bool) {
	pos := e.position(id)
	if pos < 0 {
		return LookupEntry{}, false
	}
	return e.match(e.rows[pos])
}

// Image returns the image source displayed for a row.
func (e *Engine) Image(id RowID) string {
	e.settle()
	pos := e.position(id)
	if pos < 0 || e.schema.image < 0 {
		return PlaceholderImage
	}
	if src := e.rows[pos].values[e.schema.keyAt(e.schema.image)]; src != "" {
		return src
	}
	return PlaceholderImage
}

// LineItems returns the rows that carry both a lookup value and a positive
// quantity.
func (e *Engine) LineItems() []LineItem {
	e.settle()
	if !e.schema.Transactional() {
		return nil
	}
	lookupKey := e.schema.keyAt(e.schema.lookup)
	qtyKey := e.schema.keyAt(e.schema.quantity)
	rateKey := e.schema.keyAt(e.schema.rate)

	var items []LineItem
	for _, r := range e.rows {
		lookupID := r.values[lookupKey]
		if lookupKey != "" && lookupID == "" {
			continue
		}
		qty := ParseNumber(r.values[qtyKey])
		if qty <= 0 {
			continue
		}
		rate := ParseNumber(r.values[rateKey])
		items = append(items, LineItem{
			Row:      r.id,
			LookupID: lookupID,
			Quantity: qty,
			Rate:     rate,
			Amount:   qty * rate,
		})
	}
	return items
}

// Recompute derives rates, images and amounts for every row and recalculates
// the totals.
func (e *Engine) Recompute() Totals {
	var subtotal float64
	transactional := e.schema.Transactional()
	rateKey := e.schema.keyAt(e.schema.rate)
	qtyKey := e.schema.keyAt(e.schema.quantity)
	amountKey := e.schema.keyAt(e.schema.amount)
	imageKey := e.schema.keyAt(e.schema.image)

	for _, r := range e.rows {
		entry, matched := e.match(r)

		if rateKey != "" && r.values[rateKey] == "" && matched && entry.Rate != nil {
			r.values[rateKey] = formatRate(*entry.Rate)
		}

		if imageKey != "" {
			src := PlaceholderImage
			if matched && usableImage(entry.ImageURL) {
				src = entry.ImageURL
			}
			r.values[imageKey] = src
		}

		if !transactional {
			continue
		}
		amount := ParseNumber(r.values[qtyKey]) * ParseNumber(r.values[rateKey])
		if amountKey != "" {
			r.values[amountKey] = FormatAmount(amount)
		}
		subtotal += amount
	}

	e.totals = Totals{
		Subtotal:   subtotal,
		Tax:        subtotal * TaxRate,
		GrandTotal: subtotal * (1 + TaxRate),
	}
	e.dirty = false
	return e.totals
}

func (e *Engine) markDirty() {
	e.dirty = true
	e.settle()
}

func (e *Engine) settle() {
	if e.dirty {
		e.Recompute()
	}
}

func (e *Engine) position(id RowID) int {
	for i, r := range e.rows {
		if r.id == id {
			return i
		}
	}
	return -1
}

func (e *Engine) match(r row) (LookupEntry, bool) {
	if e.schema.lookup < 0 {
		return LookupEntry{}, false
	}
	col := e.schema.columns[e.schema.lookup]
	value := r.values[col.Key]
	if value == "" {
		return LookupEntry{}, false
	}
	for _, entry := range col.Source {
		if entry.ID == value {
			return entry, true
		}
	}
	return LookupEntry{}, false
}

func snapshot(r row) Row {
	values := make(map[string]string, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Row{ID: r.id, Values: values}
}

// ParseNumber parses a cell value. Blank, malformed and non-finite input
// yields 0.
func ParseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// FormatAmount renders a value with exactly two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func usableImage(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}
	if strings.HasPrefix(src, "/") {
		return true
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
