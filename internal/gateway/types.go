package gateway

import (
	"strings"
	"time"
)

// serviceTimestampLayout is the naive ISO form the procurement service emits.
const serviceTimestampLayout = "2006-01-02T15:04:05.999999"

// Credentials is the /login/ request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the identity returned by /login/.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Item is a catalogue entry used as a lookup source for order lines.
type Item struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Tender mirrors /tenders/ records.
type Tender struct {
	ID               int64   `json:"id,omitempty"`
	TenderID         string  `json:"tender_id"`
	ClientID         int64   `json:"client_id,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Budget           float64 `json:"budget"`
	Deadline         string  `json:"deadline"`
	Status           string  `json:"status,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
	EstimatedCost    float64 `json:"estimated_cost"`
	DeliveryTimeline string  `json:"delivery_timeline"`
	CreatedAt        string  `json:"created_at,omitempty"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (t Tender) ParsedCreatedAt() time.Time {
	return parseTime(t.CreatedAt)
}

// Active reports whether the tender is still accepting work.
func (t Tender) Active() bool {
	switch strings.ToLower(t.Status) {
	case "closed", "completed", "rejected":
		return false
	}
	return true
}

// TenderStatuses is the closed set accepted by PUT /tenders/{id}/status.
var TenderStatuses = []string{
	"open", "submitted", "under_review", "technical_review", "financial_review",
	"client_approval_pending", "approved", "rejected", "contract_signed",
	"completed", "closed",
}

// ValidTenderStatus reports whether status is one of TenderStatuses.
func ValidTenderStatus(status string) bool {
	for _, known := range TenderStatuses {
		if status == known {
			return true
		}
	}
	return false
}

// Contract mirrors /contracts/ records.
type Contract struct {
	ID            int64  `json:"id,omitempty"`
	TenderID      int64  `json:"tender_id"`
	Content       string `json:"content"`
	ScopeOfWork   string `json:"scope_of_work"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
	VettingStatus string `json:"vetting_status"`
	DispatchID    string `json:"dispatch_id,omitempty"`
	SignedDate    string `json:"signed_date,omitempty"`
}

// Signed reports whether the contract has been executed.
func (c Contract) Signed() bool {
	return strings.EqualFold(c.Status, "Signed")
}

// PurchaseOrder mirrors /purchase_orders/ records.
type PurchaseOrder struct {
	ID           int64   `json:"id,omitempty"`
	TenderID     int64   `json:"tender_id"`
	VendorID     int64   `json:"vendor_id"`
	PONumber     string  `json:"po_number"`
	Items        string  `json:"items"`
	TotalAmount  float64 `json:"total_amount"`
	Status       string  `json:"status"`
	ApprovedBy   string  `json:"approved_by,omitempty"`
	Acknowledged int     `json:"acknowledged"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Invoice mirrors /invoices/ records.
type Invoice struct {
	ID             int64   `json:"id"`
	POID           int64   `json:"po_id"`
	InvoiceNumber  string  `json:"invoice_number"`
	Amount         float64 `json:"amount"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalPayable   float64 `json:"total_payable"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// Pending reports whether the invoice still awaits settlement.
func (i Invoice) Pending() bool {
	return !strings.EqualFold(i.Status, "Paid")
}

// Payment mirrors /payments/ records.
type Payment struct {
	ID               int64   `json:"id,omitempty"`
	InvoiceID        int64   `json:"invoice_id"`
	AmountPaid       float64 `json:"amount_paid"`
	PaymentMode      string  `json:"payment_mode"`
	TransactionID    string  `json:"transaction_id,omitempty"`
	CommissionAmount float64 `json:"commission_amount"`
	PaymentDate      string  `json:"payment_date,omitempty"`
	Status           string  `json:"status,omitempty"`
}

// Milestone mirrors /tenders/{id}/milestones records.
type Milestone struct {
	ID               int64  `json:"id"`
	TenderID         int64  `json:"tender_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	DeliveryID       string `json:"delivery_id,omitempty"`
	InspectionStatus string `json:"inspection_status"`
	QualityRemarks   string `json:"quality_remarks,omitempty"`
	ProofURL         string `json:"proof_url,omitempty"`
	CompletionDate   string `json:"completion_date,omitempty"`
}

// MilestoneUpdate is a partial milestone change; empty fields are left alone.
type MilestoneUpdate struct {
	Status           string `json:"status,omitempty"`
	DeliveryID       string `json:"delivery_id,omitempty"`
	InspectionStatus string `json:"inspection_status,omitempty"`
	QualityRemarks   string `json:"quality_remarks,omitempty"`
	ProofURL         string `json:"proof_url,omitempty"`
}

// UploadResult is the /upload/ response.
type UploadResult struct {
	URL string `json:"url"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(serviceTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
