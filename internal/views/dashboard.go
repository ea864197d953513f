package views

import (
	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/roles"
)

// Counts are the figures behind the dashboard tiles. ActiveTenders counts
// every tender the service returns, closed ones included, as the tile always
// has.
type Counts struct {
	ActiveTenders  int
	Contracts      int
	PurchaseOrders int
	PendingBills   int
}

// CountsFrom derives the dashboard figures from raw collections.
func CountsFrom(tenders []gateway.Tender, contracts []gateway.Contract, orders []gateway.PurchaseOrder, invoices []gateway.Invoice) Counts {
	c := Counts{
		ActiveTenders:  len(tenders),
		Contracts:      len(contracts),
		PurchaseOrders: len(orders),
	}
	for _, inv := range invoices {
		if inv.Pending() {
			c.PendingBills++
		}
	}
	return c
}

// Tile is one dashboard summary card.
type Tile struct {
	Title  string
	Value  int
	Target Name
}

// DashboardTiles returns the tiles role may see. Each tile is gated like the
// view it opens.
func DashboardTiles(role roles.Role, c Counts) []Tile {
	all := []Tile{
		{Title: "Active Tenders", Value: c.ActiveTenders, Target: Tenders},
		{Title: "Contracts", Value: c.Contracts, Target: Contracts},
		{Title: "Purchase Orders", Value: c.PurchaseOrders, Target: Orders},
		{Title: "Pending Bills", Value: c.PendingBills, Target: Payments},
	}
	out := make([]Tile, 0, len(all))
	for _, t := range all {
		if Allowed(t.Target, role) {
			out = append(out, t)
		}
	}
	return out
}
