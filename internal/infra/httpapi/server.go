package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rentwatch/internal/app"
	"rentwatch/internal/domain/ledger"

	"github.com/sirupsen/logrus"
)

// Runner is the slice of the reconciliation service the API exposes.
type Runner interface {
	RunForDate(ctx context.Context, date time.Time) (*app.RunSummary, error)
}

// Server exposes the operator-facing trigger surface: a "run now" endpoint
// that shares the scheduler's code path, and the per-property payment
// history. The surrounding web app owns every other route.
type Server struct {
	runner Runner
	ledger ledger.Store
	logger *logrus.Logger
}

func NewServer(runner Runner, store ledger.Store, logger *logrus.Logger) *Server {
	return &Server{runner: runner, ledger: store, logger: logger}
}

// Handler returns the route table for the admin listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/payments", s.handlePayments)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// handleRun triggers a reconciliation run. POST /run?date=YYYY-MM-DD;
// date defaults to yesterday, matching the scheduled job.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target := time.Now().AddDate(0, 0, -1)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		target = parsed
	}

	summary, err := s.runner.RunForDate(r.Context(), target)
	if err != nil {
		s.logger.WithError(err).Error("Manual reconciliation run failed")
		http.Error(w, "reconciliation run failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handlePayments returns a property's ledger, newest due date first.
// GET /payments?property_id=N
func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	propertyID, err := strconv.ParseInt(r.URL.Query().Get("property_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid property_id", http.StatusBadRequest)
		return
	}

	payments, err := s.ledger.ListByProperty(r.Context(), propertyID)
	if err != nil {
		s.logger.WithError(err).WithField("property_id", propertyID).Error("Failed to list payments")
		http.Error(w, "failed to list payments", http.StatusInternalServerError)
		return
	}

	entries := make([]paymentJSON, 0, len(payments))
	for _, p := range payments {
		entries = append(entries, toPaymentJSON(p))
	}
	writeJSON(w, http.StatusOK, entries)
}

type paymentJSON struct {
	ID                     int64   `json:"id"`
	PropertyID             int64   `json:"property_id"`
	ExpectedAmount         string  `json:"expected_amount"`
	ActualAmount           *string `json:"actual_amount,omitempty"`
	DueDate                string  `json:"due_date"`
	ReceivedDate           *string `json:"received_date,omitempty"`
	Status                 string  `json:"status"`
	TransactionDescription string  `json:"transaction_description,omitempty"`
	TransactionReference   string  `json:"transaction_reference,omitempty"`
	LandlordNotified       bool    `json:"landlord_notified"`
	TenantNotified         bool    `json:"tenant_notified"`
}

func toPaymentJSON(p *ledger.RentPayment) paymentJSON {
	out := paymentJSON{
		ID:                     p.ID,
		PropertyID:             p.PropertyID,
		ExpectedAmount:         p.ExpectedAmount.StringFixed(2),
		DueDate:                p.DueDate.Format("2006-01-02"),
		Status:                 string(p.Status),
		TransactionDescription: p.TransactionDescription.String,
		TransactionReference:   p.TransactionReference.String,
		LandlordNotified:       p.LandlordNotified,
		TenantNotified:         p.TenantNotified,
	}
	if p.ActualAmount.Valid {
		actual := p.ActualAmount.Decimal.StringFixed(2)
		out.ActualAmount = &actual
	}
	if p.ReceivedDate.Valid {
		received := p.ReceivedDate.Time.Format("2006-01-02")
		out.ReceivedDate = &received
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
