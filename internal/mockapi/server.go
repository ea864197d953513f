// Package mockapi serves an in-memory rendition of the procurement service.
// It backs the gateway and UI tests and the `tenderdesk mock-api` command.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/five82/tenderdesk/internal/gateway"
)

var (
	errNotFound = errors.New("not found")
	errInvalid  = errors.New("invalid")
)

const maxUploadSize = 8 << 20

// Server wires the store to an HTTP router.
type Server struct {
	store  *Store
	logger *slog.Logger
}

// New returns a server over store. A nil logger discards output.
func New(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: store, logger: logger}
}

// Store exposes the backing store for assertions.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.logRequests,
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/login/", s.login)

	r.Route("/tenders", func(r chi.Router) {
		r.Get("/", s.listTenders)
		r.Post("/", s.createTender)
		r.Get("/{id}", s.getTender)
		r.Put("/{id}/status", s.updateTenderStatus)
		r.Get("/{id}/milestones", s.listMilestones)
	})
	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, s.store.Contracts()) })
		r.Post("/", s.createContract)
		r.Put("/{id}/sign", s.signContract)
	})
	r.Route("/purchase_orders", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, s.store.PurchaseOrders()) })
		r.Post("/", s.createPurchaseOrder)
		r.Put("/{id}/acknowledge", s.acknowledgePurchaseOrder)
	})
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, s.store.Invoices()) })
		r.Post("/", s.createInvoice)
	})
	r.Route("/payments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, s.store.Payments()) })
		r.Post("/", s.createPayment)
		r.Put("/{id}/verify", s.verifyPayment)
	})
	r.Route("/milestones", func(r chi.Router) {
		r.Post("/", s.createMilestone)
		r.Put("/{id}", s.updateMilestone)
	})
	r.Route("/items", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, s.store.Items()) })
		r.Post("/", s.createItem)
	})
	r.Post("/upload/", s.upload)
	r.Get("/static/uploads/{name}", s.download)

	return r
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("mock api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down mock api")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", r.Header.Get(gateway.RequestIDHeader),
		)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds gateway.Credentials
	if !decode(w, r, &creds) {
		return
	}
	user, ok := s.store.Authenticate(creds.Username, creds.Password)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) listTenders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Tenders())
}

func (s *Server) createTender(w http.ResponseWriter, r *http.Request) {
	var t gateway.Tender
	if !decode(w, r, &t) {
		return
	}
	if strings.TrimSpace(t.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	if t.Status != "" && !gateway.ValidTenderStatus(t.Status) {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid status %q", t.Status))
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreateTender(t))
}

func (s *Server) getTender(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, found := s.store.Tender(id)
	if !found {
		writeDetail(w, http.StatusNotFound, "Tender not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTenderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.SetTenderStatus(id, r.URL.Query().Get("status")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tender status updated"})
}

func (s *Server) listMilestones(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.Milestones(id))
}

func (s *Server) createContract(w http.ResponseWriter, r *http.Request) {
	var c gateway.Contract
	if !decode(w, r, &c) {
		return
	}
	if c.TenderID == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "tender_id is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreateContract(c))
}

func (s *Server) signContract(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.SignContract(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Contract signed", "contract_id": id})
}

func (s *Server) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po gateway.PurchaseOrder
	if !decode(w, r, &po) {
		return
	}
	if po.TenderID == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "tender_id is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreatePurchaseOrder(po))
}

func (s *Server) acknowledgePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.AcknowledgePurchaseOrder(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "PO acknowledged", "po_id": id})
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var inv gateway.Invoice
	if !decode(w, r, &inv) {
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreateInvoice(inv))
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var p gateway.Payment
	if !decode(w, r, &p) {
		return
	}
	if p.InvoiceID == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "invoice_id is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreatePayment(p))
}

func (s *Server) verifyPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.VerifyPayment(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment verified and completed"})
}

func (s *Server) createMilestone(w http.ResponseWriter, r *http.Request) {
	var m gateway.Milestone
	if !decode(w, r, &m) {
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreateMilestone(m))
}

func (s *Server) updateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var u gateway.MilestoneUpdate
	if !decode(w, r, &u) {
		return
	}
	m, err := s.store.UpdateMilestone(id, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var it gateway.Item
	if !decode(w, r, &it) {
		return
	}
	if strings.TrimSpace(it.Name) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.CreateItem(it))
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	name := path.Base(header.Filename)
	writeJSON(w, http.StatusOK, gateway.UploadResult{URL: s.store.SaveUpload(name, data)})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	data, ok := s.store.Upload(chi.URLParam(r, "name"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errInvalid):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
