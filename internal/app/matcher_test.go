package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"rentwatch/internal/domain/bank"
	"rentwatch/internal/domain/property"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeFeed struct {
	transactions []bank.Transaction
	err          error
	calls        int
}

func (f *fakeFeed) FetchTransactions(ctx context.Context, cred bank.Credential, from, to time.Time) ([]bank.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.transactions, nil
}

func rentRule(keyword string) property.RentRule {
	return property.RentRule{
		Frequency:      property.FrequencyWeekly,
		DueDayOfWeek:   0,
		ExpectedAmount: dec("500.00"),
		MatchKeyword:   keyword,
	}
}

var testCred = &bank.Credential{AppToken: "app_tok", UserToken: "user_tok"}

func TestFindMatch_NoCredentialSkipsFeed(t *testing.T) {
	feed := &fakeFeed{}
	m := NewTransactionMatcher(feed, testLogger())

	tx := m.FindMatch(context.Background(), nil, rentRule("rent"), date(2025, time.June, 2))

	assert.Nil(t, tx)
	assert.Zero(t, feed.calls, "feed must not be called without a credential")
}

func TestFindMatch_FeedErrorIsSwallowed(t *testing.T) {
	feed := &fakeFeed{err: errors.New("connection refused")}
	m := NewTransactionMatcher(feed, testLogger())

	tx := m.FindMatch(context.Background(), testCred, rentRule("rent"), date(2025, time.June, 2))

	assert.Nil(t, tx)
	assert.Equal(t, 1, feed.calls)
}

func TestFindMatch_KeywordCaseInsensitive(t *testing.T) {
	target := date(2025, time.June, 2)
	feed := &fakeFeed{transactions: []bank.Transaction{
		{Amount: dec("500.00"), Date: target, Description: "RENT SMITH 42 ACACIA AVE", Reference: "tx_1"},
	}}
	m := NewTransactionMatcher(feed, testLogger())

	tx := m.FindMatch(context.Background(), testCred, rentRule("rent smith"), target)

	require.NotNil(t, tx)
	assert.Equal(t, "tx_1", tx.Reference)
	assert.True(t, tx.Amount.Equal(dec("500.00")))
}

func TestFindMatch_IgnoresOtherDates(t *testing.T) {
	target := date(2025, time.June, 2)
	feed := &fakeFeed{transactions: []bank.Transaction{
		{Amount: dec("500.00"), Date: target.AddDate(0, 0, -1), Description: "rent smith", Reference: "tx_early"},
		{Amount: dec("500.00"), Date: target.AddDate(0, 0, 1), Description: "rent smith", Reference: "tx_late"},
	}}
	m := NewTransactionMatcher(feed, testLogger())

	tx := m.FindMatch(context.Background(), testCred, rentRule("rent smith"), target)

	assert.Nil(t, tx)
}

func TestFindMatch_FirstMatchInFeedOrderWins(t *testing.T) {
	target := date(2025, time.June, 2)
	feed := &fakeFeed{transactions: []bank.Transaction{
		{Amount: dec("12.50"), Date: target, Description: "coffee", Reference: "tx_1"},
		{Amount: dec("500.00"), Date: target, Description: "rent smith weekly", Reference: "tx_2"},
		{Amount: dec("500.00"), Date: target, Description: "rent smith correction", Reference: "tx_3"},
	}}
	m := NewTransactionMatcher(feed, testLogger())

	tx := m.FindMatch(context.Background(), testCred, rentRule("rent smith"), target)

	require.NotNil(t, tx)
	assert.Equal(t, "tx_2", tx.Reference)
}

func TestFindMatch_NoMatchingDescription(t *testing.T) {
	target := date(2025, time.June, 2)
	feed := &fakeFeed{transactions: []bank.Transaction{
		{Amount: dec("500.00"), Date: target, Description: "groceries", Reference: "tx_1"},
	}}
	m := NewTransactionMatcher(feed, testLogger())

	assert.Nil(t, m.FindMatch(context.Background(), testCred, rentRule("rent smith"), target))
}
