package views

import (
	"strconv"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/grid"
)

// Order grid column keys.
const (
	ColItem   = "item_id"
	ColImage  = "image"
	ColQty    = "qty"
	ColRate   = "rate"
	ColAmount = "amount"
)

// OrderSchema returns the purchase order grid with items as its lookup
// source.
func OrderSchema(items []gateway.Item) grid.Schema {
	source := make([]grid.LookupEntry, 0, len(items))
	for _, it := range items {
		rate := it.Rate
		source = append(source, grid.LookupEntry{
			ID:       strconv.FormatInt(it.ID, 10),
			Name:     it.Name,
			Rate:     &rate,
			ImageURL: it.ImageURL,
		})
	}
	return grid.MustSchema(
		grid.ColumnSpec{Key: ColItem, Label: "Item", Kind: grid.KindLookup, Source: source},
		grid.ColumnSpec{Key: ColImage, Label: "Image", Kind: grid.KindImage},
		grid.ColumnSpec{Key: ColQty, Label: "Qty", Kind: grid.KindNumber},
		grid.ColumnSpec{Key: ColRate, Label: "Rate", Kind: grid.KindNumber},
		grid.ColumnSpec{Key: ColAmount, Label: "Amount", Kind: grid.KindNumber, ReadOnly: true},
	)
}
