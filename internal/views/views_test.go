package views

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/grid"
	"github.com/five82/tenderdesk/internal/roles"
)

func TestVisible_RoleGating(t *testing.T) {
	tests := []struct {
		role roles.Role
		want []Name
	}{
		{roles.Admin, []Name{Dashboard, Tenders, Contracts, Orders, Delivery, Payments}},
		{roles.Technical, []Name{Dashboard, Tenders, Delivery}},
		{roles.Finance, []Name{Dashboard, Orders, Payments}},
		{roles.Vendor, []Name{Dashboard, Tenders, Contracts, Orders, Delivery, Payments}},
		{roles.Client, []Name{Dashboard, Tenders, Contracts, Orders, Delivery, Payments}},
		{roles.Role("auditor"), []Name{Dashboard}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.role))
		})
	}
}

func TestResolve_FallsBackToDashboard(t *testing.T) {
	assert.Equal(t, Payments, Resolve(Payments, roles.Finance))
	assert.Equal(t, Dashboard, Resolve(Contracts, roles.Finance))
}

func TestParse(t *testing.T) {
	n, err := Parse(" Orders ")
	require.NoError(t, err)
	assert.Equal(t, Orders, n)
	assert.Equal(t, "Orders", n.Title())
	assert.Equal(t, "orders", n.String())

	_, err = Parse("reports")
	require.ErrorIs(t, err, ErrUnknownView)
}

func TestDashboardTiles(t *testing.T) {
	counts := Counts{ActiveTenders: 2, Contracts: 3, PurchaseOrders: 4, PendingBills: 5}

	var titles []string
	for _, tile := range DashboardTiles(roles.Technical, counts) {
		titles = append(titles, tile.Title)
	}
	assert.Equal(t, []string{"Active Tenders"}, titles)

	finance := DashboardTiles(roles.Finance, counts)
	require.Len(t, finance, 2)
	assert.Equal(t, Tile{Title: "Purchase Orders", Value: 4, Target: Orders}, finance[0])
	assert.Equal(t, Tile{Title: "Pending Bills", Value: 5, Target: Payments}, finance[1])

	assert.Len(t, DashboardTiles(roles.Admin, counts), 4)
}

func TestCountsFrom(t *testing.T) {
	c := CountsFrom(
		[]gateway.Tender{{Status: "open"}, {Status: "closed"}, {Status: "technical_review"}},
		[]gateway.Contract{{}, {}},
		[]gateway.PurchaseOrder{{}},
		[]gateway.Invoice{{Status: "Paid"}, {Status: "Partial"}, {Status: "Draft"}},
	)
	assert.Equal(t, Counts{ActiveTenders: 3, Contracts: 2, PurchaseOrders: 1, PendingBills: 2}, c, "closed tenders still count")
}

// fakeService serves canned data; a non-nil fail error is returned by the
// named operation.
type fakeService struct {
	tenders []gateway.Tender
	items   []gateway.Item
	failOp  string
	fail    error
	calls   atomic.Int32
}

var _ gateway.Service = (*fakeService)(nil)

func (f *fakeService) check(op string) error {
	f.calls.Add(1)
	if f.failOp == op {
		return f.fail
	}
	return nil
}

func (f *fakeService) Login(context.Context, gateway.Credentials) (gateway.User, error) {
	return gateway.User{}, f.check("login")
}
func (f *fakeService) FetchTenders(context.Context) ([]gateway.Tender, error) {
	return f.tenders, f.check("tenders")
}
func (f *fakeService) CreateTender(_ context.Context, t gateway.Tender) (gateway.Tender, error) {
	return t, f.check("create_tender")
}
func (f *fakeService) UpdateTenderStatus(context.Context, int64, string) error {
	return f.check("tender_status")
}
func (f *fakeService) FetchContracts(context.Context) ([]gateway.Contract, error) {
	return []gateway.Contract{{ID: 1}}, f.check("contracts")
}
func (f *fakeService) CreateContract(_ context.Context, c gateway.Contract) (gateway.Contract, error) {
	return c, f.check("create_contract")
}
func (f *fakeService) SignContract(context.Context, int64, string) error {
	return f.check("sign")
}
func (f *fakeService) FetchPurchaseOrders(context.Context) ([]gateway.PurchaseOrder, error) {
	return []gateway.PurchaseOrder{{ID: 1}, {ID: 2}}, f.check("orders")
}
func (f *fakeService) CreatePurchaseOrder(_ context.Context, po gateway.PurchaseOrder) (gateway.PurchaseOrder, error) {
	return po, f.check("create_order")
}
func (f *fakeService) AcknowledgePurchaseOrder(context.Context, int64) error {
	return f.check("ack")
}
func (f *fakeService) FetchInvoices(context.Context) ([]gateway.Invoice, error) {
	return []gateway.Invoice{{Status: "Draft"}}, f.check("invoices")
}
func (f *fakeService) FetchPayments(context.Context) ([]gateway.Payment, error) {
	return nil, f.check("payments")
}
func (f *fakeService) CreatePayment(_ context.Context, p gateway.Payment) (gateway.Payment, error) {
	return p, f.check("create_payment")
}
func (f *fakeService) FetchMilestones(context.Context, int64) ([]gateway.Milestone, error) {
	return []gateway.Milestone{{ID: 7}}, f.check("milestones")
}
func (f *fakeService) UpdateMilestone(_ context.Context, id int64, _ gateway.MilestoneUpdate) (gateway.Milestone, error) {
	return gateway.Milestone{ID: id}, f.check("update_milestone")
}
func (f *fakeService) FetchItems(context.Context) ([]gateway.Item, error) {
	return f.items, f.check("items")
}
func (f *fakeService) CreateItem(_ context.Context, it gateway.Item) (gateway.Item, error) {
	return it, f.check("create_item")
}
func (f *fakeService) Upload(context.Context, string, io.Reader) (gateway.UploadResult, error) {
	return gateway.UploadResult{}, f.check("upload")
}

func TestLoader_DashboardCounts(t *testing.T) {
	svc := &fakeService{tenders: []gateway.Tender{{Status: "open"}, {Status: "closed"}}}
	data, err := NewLoader(svc).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{ActiveTenders: 2, Contracts: 1, PurchaseOrders: 2, PendingBills: 1}, data.Counts)
	assert.EqualValues(t, 4, svc.calls.Load())
}

func TestLoader_AllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	svc := &fakeService{
		tenders: []gateway.Tender{{ID: 1}},
		items:   []gateway.Item{{ID: 1}},
		failOp:  "items",
		fail:    boom,
	}
	data, err := NewLoader(svc).Orders(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load items")
	assert.Empty(t, data.Tenders, "partial data must not leak on failure")
	assert.Empty(t, data.Orders)

	svc.failOp = "payments"
	payments, err := NewLoader(svc).Payments(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, payments.Invoices)
}

func TestLoader_Milestones(t *testing.T) {
	ms, err := NewLoader(&fakeService{}).Milestones(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.EqualValues(t, 7, ms[0].ID)
}

func TestOrderSchema_DrivesGrid(t *testing.T) {
	schema := OrderSchema([]gateway.Item{
		{ID: 11, Name: "Cement", Rate: 7.5, ImageURL: "/img/cement.png"},
		{ID: 12, Name: "Survey", Rate: 300},
	})
	require.True(t, schema.Transactional())

	e := grid.New(schema)
	id := e.AddRow(map[string]string{ColItem: "11", ColQty: "4"})
	e.AddRow(map[string]string{ColItem: "12"})

	row, ok := e.Row(id)
	require.True(t, ok)
	assert.Equal(t, "7.5", row.Value(ColRate))
	assert.Equal(t, "30.00", row.Value(ColAmount))
	assert.Equal(t, "/img/cement.png", e.Image(id))

	sub, tax, grand := e.Totals().Format()
	assert.Equal(t, "30.00", sub)
	assert.Equal(t, "5.40", tax)
	assert.Equal(t, "35.40", grand)

	po, err := PurchaseOrder(5, 4, "admin", e.LineItems())
	require.NoError(t, err)
	assert.Equal(t, "Item:11 Qty:4 Rate:7.5", po.Items)
	assert.InDelta(t, 30.0, po.TotalAmount, 1e-9)
}

func TestPurchaseOrder(t *testing.T) {
	lines := []grid.LineItem{
		{LookupID: "1", Quantity: 2, Rate: 10, Amount: 20},
		{LookupID: "3", Quantity: 0.5, Rate: 4, Amount: 2},
	}
	po, err := PurchaseOrder(9, 4, "client", lines)
	require.NoError(t, err)
	assert.Equal(t, "Item:1 Qty:2 Rate:10\nItem:3 Qty:0.5 Rate:4", po.Items)
	assert.InDelta(t, 22.0, po.TotalAmount, 1e-9)
	assert.True(t, strings.HasPrefix(po.PONumber, "PO-"))
	assert.Len(t, po.PONumber, 11)
	assert.Equal(t, "client", po.ApprovedBy)

	_, err = PurchaseOrder(0, 4, "", lines)
	assert.ErrorIs(t, err, ErrNoTender)
	_, err = PurchaseOrder(9, 4, "", nil)
	assert.ErrorIs(t, err, ErrNoLines)
	_, err = PurchaseOrder(9, 0, "", lines)
	assert.ErrorIs(t, err, ErrNoVendor)
}

func TestPurchaseOrder_SkipsLinesWithoutQuantity(t *testing.T) {
	e := grid.New(OrderSchema([]gateway.Item{{ID: 1, Name: "Cement", Rate: 7.5}}))
	e.AddRow(map[string]string{ColItem: "1", ColQty: "abc"})
	e.AddRow(map[string]string{ColItem: "1", ColQty: "0"})

	_, err := PurchaseOrder(5, 4, "fin", e.LineItems())
	assert.ErrorIs(t, err, ErrNoLines)

	_, err = PurchaseOrder(5, 4, "fin", []grid.LineItem{
		{LookupID: "1", Quantity: 0, Rate: 7.5},
		{LookupID: "", Quantity: 3, Rate: 2, Amount: 6},
	})
	assert.ErrorIs(t, err, ErrNoLines)

	po, err := PurchaseOrder(5, 4, "fin", []grid.LineItem{
		{LookupID: "1", Quantity: 0, Rate: 7.5},
		{LookupID: "1", Quantity: 2, Rate: 7.5, Amount: 15},
	})
	require.NoError(t, err)
	assert.Equal(t, "Item:1 Qty:2 Rate:7.5", po.Items)
	assert.InDelta(t, 15.0, po.TotalAmount, 1e-9)
}

func TestContractDraft(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	c, err := ContractDraft(2, "  Deck repair ", now)
	require.NoError(t, err)
	assert.Equal(t, "Draft", c.Status)
	assert.Equal(t, "Pending", c.VettingStatus)
	assert.Equal(t, "Deck repair", c.ScopeOfWork)
	assert.Equal(t, "2026-03-04T05:06:07", c.StartDate)
	assert.True(t, strings.HasPrefix(c.DispatchID, "DSP-"))

	_, err = ContractDraft(2, " ", now)
	assert.ErrorIs(t, err, ErrNoScope)
	_, err = ContractDraft(0, "x", now)
	assert.ErrorIs(t, err, ErrNoTender)
}

func TestPayment(t *testing.T) {
	p, err := Payment(3, 1500)
	require.NoError(t, err)
	assert.Equal(t, PaymentMode, p.PaymentMode)
	assert.InDelta(t, 150.0, p.CommissionAmount, 1e-9)

	_, err = Payment(3, 0)
	assert.ErrorIs(t, err, ErrBadAmount)
	_, err = Payment(0, 10)
	assert.ErrorIs(t, err, ErrNoInvoice)
}

func TestInspection(t *testing.T) {
	u, err := Inspection("passed", " clean ")
	require.NoError(t, err)
	assert.Equal(t, gateway.MilestoneUpdate{Status: "Completed", InspectionStatus: "Passed", QualityRemarks: "clean"}, u)

	u, err = Inspection("Failed", "")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", u.Status)
	assert.Equal(t, "Failed", u.InspectionStatus)

	_, err = Inspection("maybe", "")
	assert.ErrorIs(t, err, ErrBadInspected)
}

func TestProofUploaded(t *testing.T) {
	u, err := ProofUploaded("/static/uploads/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", u.Status)
	assert.Equal(t, "/static/uploads/a.pdf", u.ProofURL)

	_, err = ProofUploaded("")
	assert.ErrorIs(t, err, ErrNoProofFile)
}

func TestTenderDraft(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tender, err := TenderDraft{Title: " Canal ", Budget: "12.5k"}.Tender(3, now)
	require.NoError(t, err)
	assert.Equal(t, "Canal", tender.Title)
	assert.Zero(t, tender.Budget, "malformed budget coerces to zero")
	assert.Equal(t, "2026-06-01", tender.Deadline)
	assert.Equal(t, "open", tender.Status)
	assert.True(t, strings.HasPrefix(tender.TenderID, "TND-2026-"))

	_, err = TenderDraft{}.Tender(3, now)
	assert.ErrorIs(t, err, ErrNoTitle)

	d := DraftFromTender(gateway.Tender{Title: "X", Budget: 2500, Status: "open", ImageURL: "/static/uploads/x.png"})
	assert.Equal(t, "2500", d.Budget)
	assert.Equal(t, "/static/uploads/x.png", d.ImageURL)

	withImage, err := TenderDraft{Title: "Canal", ImageURL: " /static/uploads/site.png "}.Tender(3, now)
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/site.png", withImage.ImageURL)
}
