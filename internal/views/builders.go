package views

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/grid"
)

// Payload validation errors.
var (
	ErrNoTender     = errors.New("select a tender first")
	ErrNoVendor     = errors.New("set the vendor first")
	ErrNoLines      = errors.New("add at least one item with a quantity")
	ErrNoScope      = errors.New("scope of work is required")
	ErrNoInvoice    = errors.New("select an invoice first")
	ErrBadAmount    = errors.New("amount must be greater than zero")
	ErrNoTitle      = errors.New("title is required")
	ErrNoMilestone  = errors.New("select a milestone first")
	ErrNoProofFile  = errors.New("proof upload returned no url")
	ErrBadInspected = errors.New("inspection result must be Passed or Failed")
)

// Payment defaults.
const (
	PaymentMode    = "Bank Transfer"
	CommissionRate = 0.10
)

// Inspection outcomes.
const (
	InspectionPassed = "Passed"
	InspectionFailed = "Failed"
)

// contractTemplate is the boilerplate content of a drafted contract.
const contractTemplate = "Standard Agreement"

func shortCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// PurchaseOrder builds a PO from the grid's submittable lines. Lines without
// an item or a positive quantity are skipped. The total is the subtotal of
// the kept lines; tax is not included.
func PurchaseOrder(tenderID, vendorID int64, approvedBy string, lines []grid.LineItem) (gateway.PurchaseOrder, error) {
	if tenderID <= 0 {
		return gateway.PurchaseOrder{}, ErrNoTender
	}
	if vendorID <= 0 {
		return gateway.PurchaseOrder{}, ErrNoVendor
	}
	text := make([]string, 0, len(lines))
	var total float64
	for _, li := range lines {
		if li.LookupID == "" || li.Quantity <= 0 {
			continue
		}
		text = append(text, "Item:"+li.LookupID+" Qty:"+formatNumber(li.Quantity)+" Rate:"+formatNumber(li.Rate))
		total += li.Amount
	}
	if len(text) == 0 {
		return gateway.PurchaseOrder{}, ErrNoLines
	}
	return gateway.PurchaseOrder{
		TenderID:    tenderID,
		VendorID:    vendorID,
		PONumber:    shortCode("PO"),
		Items:       strings.Join(text, "\n"),
		TotalAmount: total,
		Status:      "Created",
		ApprovedBy:  approvedBy,
	}, nil
}

// ContractDraft builds a new contract for a tender.
func ContractDraft(tenderID int64, scope string, now time.Time) (gateway.Contract, error) {
	if tenderID <= 0 {
		return gateway.Contract{}, ErrNoTender
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return gateway.Contract{}, ErrNoScope
	}
	stamp := now.UTC().Format("2006-01-02T15:04:05")
	return gateway.Contract{
		TenderID:      tenderID,
		Content:       contractTemplate,
		ScopeOfWork:   scope,
		StartDate:     stamp,
		EndDate:       stamp,
		Status:        "Draft",
		VettingStatus: "Pending",
		DispatchID:    shortCode("DSP"),
	}, nil
}

// Payment builds a settlement with the standard commission.
func Payment(invoiceID int64, amount float64) (gateway.Payment, error) {
	if invoiceID <= 0 {
		return gateway.Payment{}, ErrNoInvoice
	}
	if amount <= 0 {
		return gateway.Payment{}, ErrBadAmount
	}
	return gateway.Payment{
		InvoiceID:        invoiceID,
		AmountPaid:       amount,
		PaymentMode:      PaymentMode,
		CommissionAmount: amount * CommissionRate,
	}, nil
}

// Inspection records a quality check. A pass completes the milestone; a
// failure sends it back to in progress.
func Inspection(result, remarks string) (gateway.MilestoneUpdate, error) {
	var status string
	switch {
	case strings.EqualFold(result, InspectionPassed):
		result, status = InspectionPassed, "Completed"
	case strings.EqualFold(result, InspectionFailed):
		result, status = InspectionFailed, "In Progress"
	default:
		return gateway.MilestoneUpdate{}, ErrBadInspected
	}
	return gateway.MilestoneUpdate{
		Status:           status,
		InspectionStatus: result,
		QualityRemarks:   strings.TrimSpace(remarks),
	}, nil
}

// ProofUploaded moves a milestone to in progress with its proof attached.
func ProofUploaded(proofURL string) (gateway.MilestoneUpdate, error) {
	if strings.TrimSpace(proofURL) == "" {
		return gateway.MilestoneUpdate{}, ErrNoProofFile
	}
	return gateway.MilestoneUpdate{
		Status:   "In Progress",
		ProofURL: proofURL,
	}, nil
}

// TenderDraft is the form state of a tender being created or edited.
type TenderDraft struct {
	Title            string
	Description      string
	Budget           string
	Deadline         string
	DeliveryTimeline string
	Status           string
	ImageURL         string
}

// DraftFromTender loads a record into the form.
func DraftFromTender(t gateway.Tender) TenderDraft {
	return TenderDraft{
		Title:            t.Title,
		Description:      t.Description,
		Budget:           formatNumber(t.Budget),
		Deadline:         t.Deadline,
		DeliveryTimeline: t.DeliveryTimeline,
		Status:           t.Status,
		ImageURL:         t.ImageURL,
	}
}

// Tender builds a new tender from the form. The budget is coerced leniently
// and doubles as the estimated cost.
func (d TenderDraft) Tender(clientID int64, now time.Time) (gateway.Tender, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return gateway.Tender{}, ErrNoTitle
	}
	budget := grid.ParseNumber(d.Budget)
	deadline := strings.TrimSpace(d.Deadline)
	if deadline == "" {
		deadline = now.AddDate(0, 1, 0).Format("2006-01-02")
	}
	return gateway.Tender{
		TenderID:         "TND-" + now.Format("2006") + "-" + strings.ToUpper(uuid.NewString()[:4]),
		ClientID:         clientID,
		Title:            title,
		Description:      strings.TrimSpace(d.Description),
		Budget:           budget,
		Deadline:         deadline,
		Status:           "open",
		EstimatedCost:    budget,
		DeliveryTimeline: strings.TrimSpace(d.DeliveryTimeline),
		ImageURL:         strings.TrimSpace(d.ImageURL),
	}, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
