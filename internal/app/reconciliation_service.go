package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"rentwatch/internal/domain/bank"
	"rentwatch/internal/domain/landlord"
	"rentwatch/internal/domain/ledger"
	"rentwatch/internal/domain/notify"
	"rentwatch/internal/domain/property"
	idb "rentwatch/internal/infra/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RunSummary reports what a single reconciliation run did.
type RunSummary struct {
	RunID              string    `json:"run_id"`
	Date               time.Time `json:"date"`
	Processed          int       `json:"processed"`
	SkippedNotDue      int       `json:"skipped_not_due"`
	SkippedAlreadyDone int       `json:"skipped_already_done"`
	Received           int       `json:"received"`
	Partial            int       `json:"partial"`
	Missed             int       `json:"missed"`
	Failed             int       `json:"failed"`
}

type outcome int

const (
	outcomeNotDue outcome = iota
	outcomeAlreadyDone
	outcomeReceived
	outcomePartial
	outcomeMissed
	outcomeFailed
)

// ReconciliationService is the daily rent-reconciliation engine. For each
// property it decides whether rent was due on the target date, matches the
// expected payment against the landlord's bank feed, classifies the outcome,
// persists exactly one immutable ledger entry per (property, due date) and
// dispatches the matching notifications.
//
// Repeated runs for the same date are safe: the ledger lookup plus the
// storage unique constraint form the idempotency gate, so retries and
// overlapping manual triggers never double-record or double-notify.
type ReconciliationService struct {
	properties property.Repository
	landlords  landlord.Repository
	payments   ledger.Store
	matcher    *TransactionMatcher
	dispatcher notify.Dispatcher
	logger     *logrus.Logger
	workers    int
}

func NewReconciliationService(
	properties property.Repository,
	landlords landlord.Repository,
	payments ledger.Store,
	matcher *TransactionMatcher,
	dispatcher notify.Dispatcher,
	logger *logrus.Logger,
	workers int,
) *ReconciliationService {
	if workers < 1 {
		workers = 1
	}
	return &ReconciliationService{
		properties: properties,
		landlords:  landlords,
		payments:   payments,
		matcher:    matcher,
		dispatcher: dispatcher,
		logger:     logger,
		workers:    workers,
	}
}

// RunForDate reconciles every property for the given due date. Properties
// are independent units of work: a failure on one is logged, counted and
// does not stop the others. The only fatal condition is being unable to
// list the properties at all, which is returned so the scheduler can log a
// failed run and retry on the next tick.
func (s *ReconciliationService) RunForDate(ctx context.Context, date time.Time) (*RunSummary, error) {
	day := ledger.DateOnly(date)
	runID := uuid.NewString()
	runLog := s.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"due_date": day.Format("2006-01-02"),
	})

	properties, err := s.properties.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	runLog.WithField("properties", len(properties)).Info("Reconciliation run started")

	summary := &RunSummary{RunID: runID, Date: day}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

dispatch:
	for _, p := range properties {
		select {
		case <-ctx.Done():
			// Stop handing out work; entries already committed stay
			// committed and the idempotency gate resumes where this run
			// left off.
			runLog.WithError(ctx.Err()).Warn("Run cancelled mid-iteration")
			break dispatch
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(p *property.Property) {
			defer wg.Done()
			defer func() { <-sem }()
			result := s.reconcileProperty(ctx, runLog, p, day)
			mu.Lock()
			record(summary, result)
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	runLog.WithFields(logrus.Fields{
		"processed":            summary.Processed,
		"skipped_not_due":      summary.SkippedNotDue,
		"skipped_already_done": summary.SkippedAlreadyDone,
		"received":             summary.Received,
		"partial":              summary.Partial,
		"missed":               summary.Missed,
		"failed":               summary.Failed,
	}).Info("Reconciliation run complete")
	return summary, nil
}

func record(s *RunSummary, o outcome) {
	switch o {
	case outcomeNotDue:
		s.SkippedNotDue++
		return
	case outcomeAlreadyDone:
		s.SkippedAlreadyDone++
		return
	case outcomeReceived:
		s.Received++
	case outcomePartial:
		s.Partial++
	case outcomeMissed:
		s.Missed++
	case outcomeFailed:
		s.Failed++
	}
	s.Processed++
}

func (s *ReconciliationService) reconcileProperty(ctx context.Context, runLog *logrus.Entry, p *property.Property, day time.Time) outcome {
	propLog := runLog.WithField("property_id", p.ID)

	if !p.Rule.IsDueOn(day) {
		return outcomeNotDue
	}

	exists, err := s.payments.Exists(ctx, p.ID, day)
	if err != nil {
		propLog.WithError(err).Error("Failed to check for existing ledger entry")
		return outcomeFailed
	}
	if exists {
		propLog.Debug("Due date already reconciled, skipping")
		return outcomeAlreadyDone
	}

	owner, err := s.landlords.GetByID(ctx, p.LandlordID)
	if err != nil {
		propLog.WithError(err).WithField("landlord_id", p.LandlordID).Error("Failed to load landlord")
		return outcomeFailed
	}

	tx := s.matcher.FindMatch(ctx, feedCredential(owner), p.Rule, day)
	entry := buildEntry(p, day, tx)

	if err := s.payments.Create(ctx, entry); err != nil {
		if errors.Is(err, idb.ErrDuplicatePayment) {
			// A concurrent run won the race; its entry carries the
			// notifications, so this worker does nothing more.
			propLog.Info("Ledger entry already created by a concurrent run, skipping")
			return outcomeAlreadyDone
		}
		propLog.WithError(err).Error("Failed to persist rent payment")
		return outcomeFailed
	}
	propLog.WithFields(logrus.Fields{"payment_id": entry.ID, "status": entry.Status}).
		Info("Rent payment recorded")

	s.dispatchNotifications(ctx, propLog, p, owner, entry)

	switch entry.Status {
	case ledger.StatusReceived:
		return outcomeReceived
	case ledger.StatusPartial:
		return outcomePartial
	default:
		return outcomeMissed
	}
}

// buildEntry classifies the match result into an immutable ledger entry.
// Exact fixed-point equality decides received vs partial; no transaction at
// all is missed.
func buildEntry(p *property.Property, day time.Time, tx *bank.Transaction) *ledger.RentPayment {
	entry := &ledger.RentPayment{
		PropertyID:     p.ID,
		ExpectedAmount: p.Rule.ExpectedAmount,
		DueDate:        day,
		Status:         ledger.StatusMissed,
	}
	if tx == nil {
		return entry
	}

	entry.ActualAmount = decimal.NewNullDecimal(tx.Amount)
	entry.ReceivedDate = sql.NullTime{Time: ledger.DateOnly(tx.Date), Valid: true}
	entry.TransactionDescription = sql.NullString{String: tx.Description, Valid: true}
	if tx.Reference != "" {
		entry.TransactionReference = sql.NullString{String: tx.Reference, Valid: true}
	}
	if tx.Amount.Equal(p.Rule.ExpectedAmount) {
		entry.Status = ledger.StatusReceived
	} else {
		entry.Status = ledger.StatusPartial
	}
	return entry
}

// dispatchNotifications fires the landlord notification for the outcome
// and, for missed rent on opted-in properties, the tenant reminder. The
// ledger entry is already committed at this point: dispatch is best-effort
// and a failure only produces a warning with enough context for a manual
// resend. Each successful dispatch marks the matching notified flag.
func (s *ReconciliationService) dispatchNotifications(ctx context.Context, propLog *logrus.Entry, p *property.Property, owner *landlord.Landlord, entry *ledger.RentPayment) {
	payload := notify.Payload{
		PropertyAddress: p.Address,
		TenantName:      p.TenantName,
		ExpectedAmount:  entry.ExpectedAmount,
		DueDate:         entry.DueDate,
	}
	if entry.ActualAmount.Valid {
		amount := entry.ActualAmount.Decimal
		payload.ActualAmount = &amount
	}
	if entry.ReceivedDate.Valid {
		received := entry.ReceivedDate.Time
		payload.ReceivedDate = &received
	}

	kind := landlordKind(entry.Status)
	recipient := notify.Recipient{
		Name:           owner.FirstName,
		Email:          owner.Email,
		TelegramChatID: owner.TelegramChatID.Int64,
	}
	if err := s.dispatcher.Notify(ctx, kind, recipient, payload); err != nil {
		propLog.WithError(err).WithFields(logrus.Fields{"kind": kind, "recipient": owner.Email}).
			Warn("Notification dispatch failed")
	} else if err := s.payments.MarkLandlordNotified(ctx, entry.ID); err != nil {
		propLog.WithError(err).Warn("Failed to mark landlord notified")
	}

	if entry.Status == ledger.StatusMissed && p.SendTenantReminder {
		tenant := notify.Recipient{Name: p.TenantName, Email: p.TenantEmail}
		if err := s.dispatcher.Notify(ctx, notify.KindTenantReminder, tenant, payload); err != nil {
			propLog.WithError(err).WithFields(logrus.Fields{"kind": notify.KindTenantReminder, "recipient": p.TenantEmail}).
				Warn("Notification dispatch failed")
		} else if err := s.payments.MarkTenantNotified(ctx, entry.ID); err != nil {
			propLog.WithError(err).Warn("Failed to mark tenant notified")
		}
	}
}

func landlordKind(status ledger.Status) notify.Kind {
	switch status {
	case ledger.StatusReceived:
		return notify.KindLandlordReceived
	case ledger.StatusPartial:
		return notify.KindLandlordPartial
	default:
		return notify.KindLandlordMissed
	}
}

func feedCredential(owner *landlord.Landlord) *bank.Credential {
	if !owner.HasBankFeed() {
		return nil
	}
	return &bank.Credential{
		AppToken:  owner.AkahuAppToken.String,
		UserToken: owner.AkahuUserToken.String,
	}
}
