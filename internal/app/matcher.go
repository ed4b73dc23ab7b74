package app

import (
	"context"
	"strings"
	"time"

	"rentwatch/internal/domain/bank"
	"rentwatch/internal/domain/property"

	"github.com/sirupsen/logrus"
)

// TransactionMatcher looks up a landlord's bank feed for the transaction
// paying a given due date. It is deliberately forgiving: a missing
// credential is a normal outcome (the landlord never linked a feed), and a
// feed transport or auth failure is logged and swallowed into "no match" so
// a flaky bank API can never abort a reconciliation run.
type TransactionMatcher struct {
	feed   bank.Feed
	logger *logrus.Logger
}

func NewTransactionMatcher(feed bank.Feed, logger *logrus.Logger) *TransactionMatcher {
	return &TransactionMatcher{feed: feed, logger: logger}
}

// FindMatch returns the first transaction on the target date whose
// description contains the rule's keyword, case-insensitively, or nil when
// there is none. Ties keep feed order, so the pick is deterministic for a
// deterministic feed. A nil credential returns nil without calling the feed.
func (m *TransactionMatcher) FindMatch(ctx context.Context, cred *bank.Credential, rule property.RentRule, date time.Time) *bank.Transaction {
	if cred == nil {
		return nil
	}

	transactions, err := m.feed.FetchTransactions(ctx, *cred, date, date)
	if err != nil {
		m.logger.WithError(err).WithField("date", date.Format("2006-01-02")).
			Warn("Bank feed unavailable, treating as no match")
		return nil
	}

	keyword := strings.ToLower(rule.MatchKeyword)
	for i := range transactions {
		tx := transactions[i]
		if !sameDay(tx.Date, date) {
			continue
		}
		if strings.Contains(strings.ToLower(tx.Description), keyword) {
			return &tx
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
