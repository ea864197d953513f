package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service lists every operation the console performs against the
// procurement service. It is implemented by *Client and faked in tests.
type Service interface {
	Login(ctx context.Context, creds Credentials) (User, error)
	FetchTenders(ctx context.Context) ([]Tender, error)
	CreateTender(ctx context.Context, t Tender) (Tender, error)
	UpdateTenderStatus(ctx context.Context, id int64, status string) error
	FetchContracts(ctx context.Context) ([]Contract, error)
	CreateContract(ctx context.Context, c Contract) (Contract, error)
	SignContract(ctx context.Context, id int64, signer string) error
	FetchPurchaseOrders(ctx context.Context) ([]PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error)
	AcknowledgePurchaseOrder(ctx context.Context, id int64) error
	FetchInvoices(ctx context.Context) ([]Invoice, error)
	FetchPayments(ctx context.Context) ([]Payment, error)
	CreatePayment(ctx context.Context, p Payment) (Payment, error)
	FetchMilestones(ctx context.Context, tenderID int64) ([]Milestone, error)
	UpdateMilestone(ctx context.Context, id int64, update MilestoneUpdate) (Milestone, error)
	FetchItems(ctx context.Context) ([]Item, error)
	CreateItem(ctx context.Context, item Item) (Item, error)
	Upload(ctx context.Context, name string, r io.Reader) (UploadResult, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the procurement HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultAPIBind   = "127.0.0.1:8000"
	defaultUserAgent = "tenderdesk/0.1"
	requestTimeout   = 10 * time.Second

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the given host:port or URL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login authenticates and returns the caller's identity and role.
func (c *Client) Login(ctx context.Context, creds Credentials) (User, error) {
	var user User
	if err := c.send(ctx, http.MethodPost, "/login/", creds, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// FetchTenders lists all tenders.
func (c *Client) FetchTenders(ctx context.Context) ([]Tender, error) {
	var out []Tender
	if err := c.send(ctx, http.MethodGet, "/tenders/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTender submits a new tender.
func (c *Client) CreateTender(ctx context.Context, t Tender) (Tender, error) {
	var out Tender
	if err := c.send(ctx, http.MethodPost, "/tenders/", t, &out); err != nil {
		return Tender{}, err
	}
	return out, nil
}

// UpdateTenderStatus changes a tender's workflow status.
func (c *Client) UpdateTenderStatus(ctx context.Context, id int64, status string) error {
	values := url.Values{}
	values.Set("status", status)
	rel := &url.URL{Path: "/tenders/" + strconv.FormatInt(id, 10) + "/status", RawQuery: values.Encode()}
	return c.sendURL(ctx, http.MethodPut, rel, nil, nil)
}

// FetchContracts lists all contracts.
func (c *Client) FetchContracts(ctx context.Context) ([]Contract, error) {
	var out []Contract
	if err := c.send(ctx, http.MethodGet, "/contracts/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateContract submits a contract draft.
func (c *Client) CreateContract(ctx context.Context, contract Contract) (Contract, error) {
	var out Contract
	if err := c.send(ctx, http.MethodPost, "/contracts/", contract, &out); err != nil {
		return Contract{}, err
	}
	return out, nil
}

// SignContract marks a contract signed on behalf of signer.
func (c *Client) SignContract(ctx context.Context, id int64, signer string) error {
	rel := &url.URL{Path: "/contracts/" + strconv.FormatInt(id, 10) + "/sign"}
	if signer = strings.TrimSpace(signer); signer != "" {
		rel.RawQuery = url.Values{"signer": {signer}}.Encode()
	}
	return c.sendURL(ctx, http.MethodPut, rel, nil, nil)
}

// FetchPurchaseOrders lists all purchase orders.
func (c *Client) FetchPurchaseOrders(ctx context.Context) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	if err := c.send(ctx, http.MethodGet, "/purchase_orders/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePurchaseOrder submits a purchase order.
func (c *Client) CreatePurchaseOrder(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	var out PurchaseOrder
	if err := c.send(ctx, http.MethodPost, "/purchase_orders/", po, &out); err != nil {
		return PurchaseOrder{}, err
	}
	return out, nil
}

// AcknowledgePurchaseOrder records vendor acknowledgement of a PO.
func (c *Client) AcknowledgePurchaseOrder(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPut, "/purchase_orders/"+strconv.FormatInt(id, 10)+"/acknowledge", nil, nil)
}

// FetchInvoices lists all invoices.
func (c *Client) FetchInvoices(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	if err := c.send(ctx, http.MethodGet, "/invoices/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchPayments lists all payments.
func (c *Client) FetchPayments(ctx context.Context) ([]Payment, error) {
	var out []Payment
	if err := c.send(ctx, http.MethodGet, "/payments/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePayment records a settlement against an invoice.
func (c *Client) CreatePayment(ctx context.Context, p Payment) (Payment, error) {
	var out Payment
	if err := c.send(ctx, http.MethodPost, "/payments/", p, &out); err != nil {
		return Payment{}, err
	}
	return out, nil
}

// FetchMilestones lists the delivery milestones of one tender.
func (c *Client) FetchMilestones(ctx context.Context, tenderID int64) ([]Milestone, error) {
	var out []Milestone
	if err := c.send(ctx, http.MethodGet, "/tenders/"+strconv.FormatInt(tenderID, 10)+"/milestones", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMilestone applies a partial milestone update.
func (c *Client) UpdateMilestone(ctx context.Context, id int64, update MilestoneUpdate) (Milestone, error) {
	var out Milestone
	if err := c.send(ctx, http.MethodPut, "/milestones/"+strconv.FormatInt(id, 10), update, &out); err != nil {
		return Milestone{}, err
	}
	return out, nil
}

// FetchItems lists the item catalogue.
func (c *Client) FetchItems(ctx context.Context) ([]Item, error) {
	var out []Item
	if err := c.send(ctx, http.MethodGet, "/items/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem adds a catalogue item.
func (c *Client) CreateItem(ctx context.Context, item Item) (Item, error) {
	var out Item
	if err := c.send(ctx, http.MethodPost, "/items/", item, &out); err != nil {
		return Item{}, err
	}
	return out, nil
}

// Upload sends a file as multipart form field "file" and returns its URL.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (UploadResult, error) {
	if r == nil {
		return UploadResult{}, fmt.Errorf("upload %q: nil reader", name)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("read upload %q: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close multipart: %w", err)
	}

	var out UploadResult
	rel := &url.URL{Path: "/upload/"}
	if err := c.exchange(ctx, http.MethodPost, rel, &buf, mw.FormDataContentType(), &out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.sendURL(ctx, method, rel, body, dest)
}

func (c *Client) sendURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.exchange(ctx, method, rel, reader, contentType, dest)
}

func (c *Client) exchange(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := NewRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			"method", method, "path", rel.Path, "request_id", requestID, "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request",
		"method", method,
		"path", rel.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, rel.Path, resp.Body)
		c.logger.Warn("api error",
			"method", method, "path", rel.Path, "status", resp.StatusCode,
			"detail", apiErr.Detail, "request_id", requestID)
		return apiErr
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", rel.Path, err)
	}
	return nil
}

// NewRequestID returns a fresh correlation id of the form req_<uuid>.
func NewRequestID() string {
	return "req_" + uuid.NewString()
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
