package views

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/five82/tenderdesk/internal/gateway"
)

// DashboardData feeds the dashboard tiles.
type DashboardData struct {
	Counts Counts
}

// TendersData feeds the tender browser.
type TendersData struct {
	Tenders []gateway.Tender
}

// ContractsData feeds the contracts screen.
type ContractsData struct {
	Contracts []gateway.Contract
	Tenders   []gateway.Tender
}

// OrdersData feeds the purchase order editor.
type OrdersData struct {
	Tenders []gateway.Tender
	Items   []gateway.Item
	Orders  []gateway.PurchaseOrder
}

// DeliveryData feeds the project picker on the delivery screen.
type DeliveryData struct {
	Contracts []gateway.Contract
	Tenders   []gateway.Tender
}

// PaymentsData feeds the payments screen.
type PaymentsData struct {
	Invoices []gateway.Invoice
	Payments []gateway.Payment
}

// Loader fetches the data of each view. Fetches for one view run in
// parallel; the first failure cancels the rest and the view gets nothing.
type Loader struct {
	svc gateway.Service
}

// NewLoader returns a loader over svc.
func NewLoader(svc gateway.Service) *Loader {
	return &Loader{svc: svc}
}

// Dashboard loads the tile counters.
func (l *Loader) Dashboard(ctx context.Context) (DashboardData, error) {
	var (
		tenders   []gateway.Tender
		contracts []gateway.Contract
		orders    []gateway.PurchaseOrder
		invoices  []gateway.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { tenders, err = l.svc.FetchTenders(gctx); return wrap("tenders", err) })
	g.Go(func() (err error) { contracts, err = l.svc.FetchContracts(gctx); return wrap("contracts", err) })
	g.Go(func() (err error) { orders, err = l.svc.FetchPurchaseOrders(gctx); return wrap("purchase orders", err) })
	g.Go(func() (err error) { invoices, err = l.svc.FetchInvoices(gctx); return wrap("invoices", err) })
	if err := g.Wait(); err != nil {
		return DashboardData{}, err
	}
	return DashboardData{Counts: CountsFrom(tenders, contracts, orders, invoices)}, nil
}

// Tenders loads the tender list.
func (l *Loader) Tenders(ctx context.Context) (TendersData, error) {
	tenders, err := l.svc.FetchTenders(ctx)
	if err != nil {
		return TendersData{}, wrap("tenders", err)
	}
	return TendersData{Tenders: tenders}, nil
}

// Contracts loads contracts and the tenders a draft can reference.
func (l *Loader) Contracts(ctx context.Context) (ContractsData, error) {
	var data ContractsData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { data.Contracts, err = l.svc.FetchContracts(gctx); return wrap("contracts", err) })
	g.Go(func() (err error) { data.Tenders, err = l.svc.FetchTenders(gctx); return wrap("tenders", err) })
	if err := g.Wait(); err != nil {
		return ContractsData{}, err
	}
	return data, nil
}

// Orders loads tenders, the item catalogue and existing purchase orders.
func (l *Loader) Orders(ctx context.Context) (OrdersData, error) {
	var data OrdersData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { data.Tenders, err = l.svc.FetchTenders(gctx); return wrap("tenders", err) })
	g.Go(func() (err error) { data.Items, err = l.svc.FetchItems(gctx); return wrap("items", err) })
	g.Go(func() (err error) {
		data.Orders, err = l.svc.FetchPurchaseOrders(gctx)
		return wrap("purchase orders", err)
	})
	if err := g.Wait(); err != nil {
		return OrdersData{}, err
	}
	return data, nil
}

// Delivery loads contracts and tenders so a project can be chosen.
func (l *Loader) Delivery(ctx context.Context) (DeliveryData, error) {
	var data DeliveryData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { data.Contracts, err = l.svc.FetchContracts(gctx); return wrap("contracts", err) })
	g.Go(func() (err error) { data.Tenders, err = l.svc.FetchTenders(gctx); return wrap("tenders", err) })
	if err := g.Wait(); err != nil {
		return DeliveryData{}, err
	}
	return data, nil
}

// Milestones loads the milestones of one project.
func (l *Loader) Milestones(ctx context.Context, tenderID int64) ([]gateway.Milestone, error) {
	ms, err := l.svc.FetchMilestones(ctx, tenderID)
	if err != nil {
		return nil, wrap("milestones", err)
	}
	return ms, nil
}

// Payments loads invoices and payment history.
func (l *Loader) Payments(ctx context.Context) (PaymentsData, error) {
	var data PaymentsData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { data.Invoices, err = l.svc.FetchInvoices(gctx); return wrap("invoices", err) })
	g.Go(func() (err error) { data.Payments, err = l.svc.FetchPayments(gctx); return wrap("payments", err) })
	if err := g.Wait(); err != nil {
		return PaymentsData{}, err
	}
	return data, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", what, err)
}
