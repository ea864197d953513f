package mockapi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/tenderdesk/internal/gateway"
)

const timestampLayout = "2006-01-02T15:04:05.000000"

type account struct {
	gateway.User
	Password string
}

// Store is the in-memory state behind the mock service. All methods are safe
// for concurrent use.
type Store struct {
	mu sync.RWMutex

	now    func() time.Time
	nextID int64

	users      []account
	items      []gateway.Item
	tenders    []gateway.Tender
	contracts  []gateway.Contract
	orders     []gateway.PurchaseOrder
	invoices   []gateway.Invoice
	payments   []gateway.Payment
	milestones []gateway.Milestone
	uploads    map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:     time.Now,
		uploads: make(map[string][]byte),
	}
}

// NewSeededStore returns a store holding the demo users and a small
// procurement history.
func NewSeededStore() *Store {
	s := NewStore()
	s.Seed()
	return s
}

// Seed loads the demo data set. Each role has a user whose password equals
// the username.
func (s *Store) Seed() {
	for _, u := range []struct{ name, full, role string }{
		{"admin", "System Administrator", "admin"},
		{"technical", "Technical Lead", "technical"},
		{"client", "Main Client", "client"},
		{"vendor", "Trusted Vendor", "vendor"},
		{"finance", "Finance Head", "finance"},
	} {
		s.AddUser(u.name, u.name, u.full, u.role)
	}

	for _, it := range []gateway.Item{
		{Name: "Cement (50kg)", Unit: "bag", Rate: 7.5, ImageURL: "/static/items/cement.png"},
		{Name: "Steel Rebar 12mm", Unit: "ton", Rate: 640},
		{Name: "Ready-mix Concrete", Unit: "m3", Rate: 95.25, ImageURL: "https://images.example.com/concrete.jpg"},
		{Name: "Site Survey", Unit: "day", Rate: 300},
	} {
		s.CreateItem(it)
	}

	road := s.CreateTender(gateway.Tender{
		TenderID: "TND-2024-001", ClientID: 3, Title: "Ring Road Resurfacing",
		Description: "Resurface 12km of the ring road", Budget: 250000,
		Deadline: "2026-03-31", EstimatedCost: 210000, DeliveryTimeline: "6 months",
	})
	bridge := s.CreateTender(gateway.Tender{
		TenderID: "TND-2024-002", ClientID: 3, Title: "Footbridge Repair",
		Description: "Structural repair of the river footbridge", Budget: 80000,
		Deadline: "2026-01-15", EstimatedCost: 72000, DeliveryTimeline: "3 months",
		Status: "technical_review",
	})
	s.CreateTender(gateway.Tender{
		TenderID: "TND-2023-014", ClientID: 3, Title: "Depot Lighting",
		Description: "LED retrofit of the bus depot", Budget: 30000,
		Deadline: "2025-06-30", EstimatedCost: 28000, DeliveryTimeline: "1 month",
		Status: "closed",
	})

	contract := s.CreateContract(gateway.Contract{
		TenderID: road.ID, Content: "Standard works contract", ScopeOfWork: "Milling, base repair and resurfacing",
		StartDate: "2026-01-01T00:00:00", EndDate: "2026-06-30T00:00:00", DispatchID: "DSP-SEED0001",
	})
	_ = s.SignContract(contract.ID)
	s.CreateContract(gateway.Contract{
		TenderID: bridge.ID, Content: "Repair contract", ScopeOfWork: "Deck and railing repair",
		StartDate: "2026-02-01T00:00:00", EndDate: "2026-04-30T00:00:00", DispatchID: "DSP-SEED0002",
	})

	po := s.CreatePurchaseOrder(gateway.PurchaseOrder{
		TenderID: road.ID, VendorID: 4, Items: "Item:1 Qty:400 Rate:7.5",
		TotalAmount: 3000,
	})
	s.CreateInvoice(gateway.Invoice{POID: po.ID, Amount: 3000, TaxAmount: 540, TotalPayable: 3540})

	s.CreateMilestone(gateway.Milestone{TenderID: road.ID, Title: "Site mobilisation", Description: "Crew and plant on site", Status: "Completed", InspectionStatus: "Passed"})
	s.CreateMilestone(gateway.Milestone{TenderID: road.ID, Title: "Phase 1 milling", Description: "First 4km milled", Status: "In Progress"})
	s.CreateMilestone(gateway.Milestone{TenderID: road.ID, Title: "Phase 1 surfacing", Description: "First 4km surfaced"})
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func shortCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// AddUser registers an account.
func (s *Store) AddUser(username, password, fullName, role string) gateway.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := gateway.User{ID: int64(len(s.users) + 1), Username: username, FullName: fullName, Role: role}
	s.users = append(s.users, account{User: u, Password: password})
	return u
}

// Authenticate returns the user for valid credentials.
func (s *Store) Authenticate(username, password string) (gateway.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.users {
		if a.Username == username && a.Password == password {
			return a.User, true
		}
	}
	return gateway.User{}, false
}

// Items lists the catalogue.
func (s *Store) Items() []gateway.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Item{}, s.items...)
}

// CreateItem adds a catalogue item.
func (s *Store) CreateItem(it gateway.Item) gateway.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.ID = s.id()
	s.items = append(s.items, it)
	return it
}

// Tenders lists all tenders.
func (s *Store) Tenders() []gateway.Tender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Tender{}, s.tenders...)
}

// Tender returns one tender.
func (s *Store) Tender(id int64) (gateway.Tender, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tenders {
		if t.ID == id {
			return t, true
		}
	}
	return gateway.Tender{}, false
}

// CreateTender stores a tender, defaulting its status to open.
func (s *Store) CreateTender(t gateway.Tender) gateway.Tender {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	if t.Status == "" {
		t.Status = "open"
	}
	if t.TenderID == "" {
		t.TenderID = shortCode("TND")
	}
	t.CreatedAt = s.stamp()
	s.tenders = append(s.tenders, t)
	return t
}

// SetTenderStatus changes a tender's status.
func (s *Store) SetTenderStatus(id int64, status string) error {
	if !gateway.ValidTenderStatus(status) {
		return fmt.Errorf("%w: status %q", errInvalid, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenders {
		if s.tenders[i].ID == id {
			s.tenders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: tender %d", errNotFound, id)
}

// Contracts lists all contracts.
func (s *Store) Contracts() []gateway.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Contract{}, s.contracts...)
}

// CreateContract stores a contract, defaulting status and vetting.
func (s *Store) CreateContract(c gateway.Contract) gateway.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	if c.Status == "" {
		c.Status = "Draft"
	}
	if c.VettingStatus == "" {
		c.VettingStatus = "Pending"
	}
	s.contracts = append(s.contracts, c)
	return c
}

// SignContract marks a contract signed.
func (s *Store) SignContract(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contracts {
		if s.contracts[i].ID == id {
			s.contracts[i].Status = "Signed"
			s.contracts[i].SignedDate = s.stamp()
			return nil
		}
	}
	return fmt.Errorf("%w: contract %d", errNotFound, id)
}

// PurchaseOrders lists all purchase orders.
func (s *Store) PurchaseOrders() []gateway.PurchaseOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.PurchaseOrder{}, s.orders...)
}

// CreatePurchaseOrder stores a PO, generating its number when absent.
func (s *Store) CreatePurchaseOrder(po gateway.PurchaseOrder) gateway.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	po.ID = s.id()
	if po.PONumber == "" {
		po.PONumber = shortCode("PO")
	}
	if po.Status == "" {
		po.Status = "Created"
	}
	po.CreatedAt = s.stamp()
	s.orders = append(s.orders, po)
	return po
}

// AcknowledgePurchaseOrder flags a PO as acknowledged.
func (s *Store) AcknowledgePurchaseOrder(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Acknowledged = 1
			return nil
		}
	}
	return fmt.Errorf("%w: purchase order %d", errNotFound, id)
}

// Invoices lists all invoices.
func (s *Store) Invoices() []gateway.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Invoice{}, s.invoices...)
}

// CreateInvoice stores an invoice, generating its number when absent.
func (s *Store) CreateInvoice(inv gateway.Invoice) gateway.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.id()
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = shortCode("INV")
	}
	if inv.Status == "" {
		inv.Status = "Draft"
	}
	inv.CreatedAt = s.stamp()
	s.invoices = append(s.invoices, inv)
	return inv
}

// Payments lists all payments.
func (s *Store) Payments() []gateway.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Payment{}, s.payments...)
}

// CreatePayment records a payment and marks its invoice partially paid.
func (s *Store) CreatePayment(p gateway.Payment) gateway.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.TransactionID == "" {
		p.TransactionID = shortCode("TXN")
	}
	p.Status = "Pending"
	p.PaymentDate = s.stamp()
	s.payments = append(s.payments, p)
	s.setInvoiceStatus(p.InvoiceID, "Partial")
	return p
}

// VerifyPayment completes a payment and marks its invoice paid.
func (s *Store) VerifyPayment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments[i].Status = "Verified"
			s.setInvoiceStatus(s.payments[i].InvoiceID, "Paid")
			return nil
		}
	}
	return fmt.Errorf("%w: payment %d", errNotFound, id)
}

func (s *Store) setInvoiceStatus(invoiceID int64, status string) {
	for i := range s.invoices {
		if s.invoices[i].ID == invoiceID {
			s.invoices[i].Status = status
			return
		}
	}
}

// Milestones lists the milestones of one tender.
func (s *Store) Milestones(tenderID int64) []gateway.Milestone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]gateway.Milestone, 0)
	for _, m := range s.milestones {
		if m.TenderID == tenderID {
			out = append(out, m)
		}
	}
	return out
}

// CreateMilestone stores a milestone with pending defaults.
func (s *Store) CreateMilestone(m gateway.Milestone) gateway.Milestone {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	if m.Status == "" {
		m.Status = "Pending"
	}
	if m.InspectionStatus == "" {
		m.InspectionStatus = "Pending"
	}
	s.milestones = append(s.milestones, m)
	return m
}

// UpdateMilestone applies the non-empty fields of u.
func (s *Store) UpdateMilestone(id int64, u gateway.MilestoneUpdate) (gateway.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.milestones {
		m := &s.milestones[i]
		if m.ID != id {
			continue
		}
		if u.Status != "" {
			m.Status = u.Status
			if u.Status == "Completed" {
				m.CompletionDate = s.stamp()
			}
		}
		if u.DeliveryID != "" {
			m.DeliveryID = u.DeliveryID
		}
		if u.InspectionStatus != "" {
			m.InspectionStatus = u.InspectionStatus
		}
		if u.QualityRemarks != "" {
			m.QualityRemarks = u.QualityRemarks
		}
		if u.ProofURL != "" {
			m.ProofURL = u.ProofURL
		}
		return *m, nil
	}
	return gateway.Milestone{}, fmt.Errorf("%w: milestone %d", errNotFound, id)
}

// SaveUpload keeps an uploaded file and returns its public path.
func (s *Store) SaveUpload(name string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[name] = data
	return "/static/uploads/" + name
}

// Upload returns a previously uploaded file.
func (s *Store) Upload(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.uploads[name]
	return data, ok
}
