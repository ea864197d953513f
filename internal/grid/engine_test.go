package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(v float64) *float64 { return &v }

func orderSchema(t *testing.T) Schema {
	t.Helper()
	s, err := NewSchema(
		ColumnSpec{Key: "image_url", Label: "Img", Kind: KindImage},
		ColumnSpec{Key: "item_id", Label: "Item", Kind: KindLookup, Source: []LookupEntry{
			{ID: "1", Name: "Chair", Rate: rate(50), ImageURL: "https://cdn.example.com/chair.png"},
			{ID: "2", Name: "Desk", Rate: rate(120)},
			{ID: "3", Name: "Lamp"},
		}},
		ColumnSpec{Key: "qty", Label: "Quantity", Kind: KindNumber},
		ColumnSpec{Key: "rate", Label: "Rate", Kind: KindNumber},
		ColumnSpec{Key: "amount", Label: "Amount", Kind: KindNumber, ReadOnly: true},
	)
	require.NoError(t, err)
	return s
}

func TestNewSchema_RejectsDuplicateAndEmptyKeys(t *testing.T) {
	_, err := NewSchema(ColumnSpec{Key: "qty"}, ColumnSpec{Key: "qty"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	_, err = NewSchema(ColumnSpec{Key: "  "})
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestNewSchema_InfersRolesAndCopiesSource(t *testing.T) {
	source := []LookupEntry{{ID: "1", Name: "Chair", Rate: rate(50)}}
	s, err := NewSchema(
		ColumnSpec{Key: "item_id", Kind: KindLookup, Source: source},
		ColumnSpec{Key: "quantity", Kind: KindNumber},
		ColumnSpec{Key: "unit_price", Kind: KindNumber},
	)
	require.NoError(t, err)
	assert.True(t, s.Transactional())

	col, ok := s.Column("quantity")
	require.True(t, ok)
	assert.Equal(t, RoleQuantity, col.Role)
	assert.Equal(t, "quantity", col.Label)

	source[0].Name = "Changed"
	*source[0].Rate = 1
	col, _ = s.Column("item_id")
	assert.Equal(t, "Chair", col.Source[0].Name)
	assert.Equal(t, 50.0, *col.Source[0].Rate)
}

func TestParseKindNames(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"text", KindText},
		{"", KindText},
		{"NUMBER", KindNumber},
		{"combo", KindLookup},
		{"lookup", KindLookup},
		{"image", KindImage},
	}
	for _, tt := range tests {
		got, err := parseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := parseKind("checkbox")
	assert.Error(t, err)
}

func TestAddRow_AppendsSeededRow(t *testing.T) {
	e := New(orderSchema(t))
	first := e.AddRow(nil)
	second := e.AddRow(map[string]string{"item_id": "2", "qty": "3", "unknown": "x"})

	rows := e.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, first, rows[0].ID)
	assert.Equal(t, second, rows[1].ID)
	assert.Equal(t, "", rows[0].Value("qty"))
	assert.Equal(t, "120", rows[1].Value("rate"))
	assert.Equal(t, "360.00", rows[1].Value("amount"))
	_, hasUnknown := rows[1].Values["unknown"]
	assert.False(t, hasUnknown)
}

func TestOptions_PreselectsCurrentValue(t *testing.T) {
	e := New(orderSchema(t))
	id := e.AddRow(map[string]string{"item_id": "2"})

	opts := e.Options(id, "item_id")
	require.Len(t, opts, 3)
	assert.False(t, opts[0].Selected)
	assert.True(t, opts[1].Selected)
	assert.False(t, opts[2].Selected)

	assert.Nil(t, e.Options(id, "qty"))
	assert.Nil(t, e.Options(999, "item_id"))
}

func TestRecompute_IsIdempotent(t *testing.T) {
	e := New(orderSchema(t))
	e.AddRow(map[string]string{"item_id": "1", "qty": "2"})
	e.AddRow(map[string]string{"item_id": "2", "qty": "1.5", "rate": "99.99"})
	e.AddRow(map[string]string{"qty": "abc", "rate": "20"})

	first := e.Recompute()
	rowsFirst := e.Rows()
	second := e.Recompute()

	assert.Equal(t, first, second)
	assert.Equal(t, rowsFirst, e.Rows())
}

func TestRecompute_RateFillIsOneTime(t *testing.T) {
	e := New(orderSchema(t))
	id := e.AddRow(map[string]string{"item_id": "1", "qty": "1"})

	row, ok := e.Row(id)
	require.True(t, ok)
	assert.Equal(t, "50", row.Value("rate"))

	require.True(t, e.Set(id, "rate", "10"))
	e.Recompute()
	row, _ = e.Row(id)
	assert.Equal(t, "10", row.Value("rate"))

	// switching the item does not overwrite a filled rate either
	require.True(t, e.Set(id, "item_id", "2"))
	row, _ = e.Row(id)
	assert.Equal(t, "10", row.Value("rate"))
	assert.Equal(t, "10.00", row.Value("amount"))
}

func TestRecompute_ZeroCoercion(t *testing.T) {
	e := New(orderSchema(t))
	id := e.AddRow(map[string]string{"qty": "", "rate": "20"})

	row, _ := e.Row(id)
	assert.Equal(t, "0.00", row.Value("amount"))
	assert.Equal(t, 0.0, e.Totals().Subtotal)

	require.True(t, e.Set(id, "qty", "NaN"))
	row, _ = e.Row(id)
	assert.Equal(t, "0.00", row.Value("amount"))
}

func TestRecompute_TaxAndGrandTotal(t *testing.T) {
	e := New(orderSchema(t))
	e.AddRow(map[string]string{"qty": "4", "rate": "12.5"})
	e.AddRow(map[string]string{"qty": "1", "rate": "50"})

	sub, tax, grand := e.Totals().Format()
	assert.Equal(t, "100.00", sub)
	assert.Equal(t, "18.00", tax)
	assert.Equal(t, "118.00", grand)
}

func TestRemoveRow_Recomputes(t *testing.T) {
	e := New(orderSchema(t))
	e.AddRow(map[string]string{"qty": "1", "rate": "100"})
	drop := e.AddRow(map[string]string{"qty": "3", "rate": "10"})

	sub, _, _ := e.Totals().Format()
	require.Equal(t, "130.00", sub)

	require.True(t, e.RemoveRow(drop))
	sub, tax, grand := e.Totals().Format()
	assert.Equal(t, "100.00", sub)
	assert.Equal(t, "18.00", tax)
	assert.Equal(t, "118.00", grand)

	assert.False(t, e.RemoveRow(drop))
	assert.Equal(t, 1, e.Len())
}

func TestRecompute_LookupMissFallsBack(t *testing.T) {
	e := New(orderSchema(t))
	id := e.AddRow(map[string]string{"item_id": "404", "qty": "2"})

	row, _ := e.Row(id)
	assert.Equal(t, "", row.Value("rate"))
	assert.Equal(t, PlaceholderImage, e.Image(id))
	_, matched := e.Match(id)
	assert.False(t, matched)
}

func TestRecompute_ImageFollowsCurrentMatch(t *testing.T) {
	e := New(orderSchema(t))
	id := e.AddRow(map[string]string{"item_id": "1"})
	assert.Equal(t, "https://cdn.example.com/chair.png", e.Image(id))

	require.True(t, e.Set(id, "item_id", "3"))
	assert.Equal(t, PlaceholderImage, e.Image(id))
}

func TestRecompute_BrokenImageUsesPlaceholder(t *testing.T) {
	s, err := NewSchema(
		ColumnSpec{Key: "img", Kind: KindImage},
		ColumnSpec{Key: "item_id", Kind: KindLookup, Source: []LookupEntry{
			{ID: "a", ImageURL: "::not a url"},
			{ID: "b", ImageURL: "/static/uploads/b.png"},
		}},
	)
	require.NoError(t, err)
	e := New(s)
	broken := e.AddRow(map[string]string{"item_id": "a"})
	local := e.AddRow(map[string]string{"item_id": "b"})

	assert.Equal(t, PlaceholderImage, e.Image(broken))
	assert.Equal(t, "/static/uploads/b.png", e.Image(local))
	assert.Equal(t, Totals{}, e.Totals())
}

func TestSet_RejectsReadOnlyAndUnknownCells(t *testing.T) {
	e := New(orderSchema(t))
	id := e.AddRow(map[string]string{"qty": "2", "rate": "5"})

	assert.False(t, e.Set(id, "amount", "999"))
	assert.False(t, e.Set(id, "image_url", "https://x/y.png"))
	assert.False(t, e.Set(id, "missing", "1"))
	assert.False(t, e.Set(RowID(999), "qty", "1"))

	row, _ := e.Row(id)
	assert.Equal(t, "10.00", row.Value("amount"))
}

func TestRowIDsStayStableAcrossRemoval(t *testing.T) {
	e := New(orderSchema(t))
	a := e.AddRow(map[string]string{"qty": "1", "rate": "1"})
	b := e.AddRow(map[string]string{"qty": "2", "rate": "1"})
	c := e.AddRow(map[string]string{"qty": "3", "rate": "1"})

	require.True(t, e.RemoveRow(b))
	require.True(t, e.Set(c, "qty", "5"))

	row, ok := e.Row(a)
	require.True(t, ok)
	assert.Equal(t, "1.00", row.Value("amount"))
	row, _ = e.Row(c)
	assert.Equal(t, "5.00", row.Value("amount"))

	d := e.AddRow(nil)
	assert.Greater(t, uint64(d), uint64(c))
}

func TestLineItems_SkipsIncompleteRows(t *testing.T) {
	e := New(orderSchema(t))
	e.AddRow(map[string]string{"item_id": "1", "qty": "2"})
	e.AddRow(map[string]string{"item_id": "2"})
	e.AddRow(map[string]string{"qty": "4", "rate": "3"})
	e.AddRow(map[string]string{"item_id": "1", "qty": "abc"})
	e.AddRow(map[string]string{"item_id": "2", "qty": "0"})
	e.AddRow(map[string]string{"item_id": "2", "qty": "-1"})

	items := e.LineItems()
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].LookupID)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, 50.0, items[0].Rate)
	assert.Equal(t, 100.0, items[0].Amount)
}

func TestReset_ClearsRowsAndTotals(t *testing.T) {
	e := New(orderSchema(t))
	e.AddRow(map[string]string{"qty": "1", "rate": "10"})
	e.Reset()

	assert.Equal(t, 0, e.Len())
	assert.Equal(t, Totals{}, e.Totals())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  12.5 ", 12.5},
		{"abc", 0},
		{"Inf", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.in), tt.in)
	}
}
