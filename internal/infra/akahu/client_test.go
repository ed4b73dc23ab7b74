package akahu

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentwatch/internal/domain/bank"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var cred = bank.Credential{AppToken: "app_tok", UserToken: "user_tok"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFetchTransactions_NormalizesFeed(t *testing.T) {
	var gotAuth, gotAppID, gotStart, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAppID = r.Header.Get("X-Akahu-ID")
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"_id": "trans_1", "date": "2025-06-02T00:00:00Z", "description": "RENT SMITH", "amount": 500.00},
			{"_id": "trans_2", "date": "2025-06-02", "description": "coffee", "amount": 4.50}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger())
	transactions, err := client.FetchTransactions(context.Background(), cred, day(2025, time.June, 1), day(2025, time.June, 2))
	require.NoError(t, err)

	assert.Equal(t, "Bearer user_tok", gotAuth)
	assert.Equal(t, "app_tok", gotAppID)
	assert.Equal(t, "2025-06-01", gotStart)
	assert.Equal(t, "2025-06-02", gotEnd)

	require.Len(t, transactions, 2)
	assert.Equal(t, "trans_1", transactions[0].Reference)
	assert.Equal(t, "RENT SMITH", transactions[0].Description)
	assert.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, day(2025, time.June, 2), transactions[1].Date)
}

func TestFetchTransactions_SkipsMalformedItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [
			{"_id": "trans_bad", "date": "not-a-date", "description": "x", "amount": 1},
			{"_id": "trans_ok", "date": "2025-06-02", "description": "rent", "amount": 500}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger())
	transactions, err := client.FetchTransactions(context.Background(), cred, day(2025, time.June, 2), day(2025, time.June, 2))
	require.NoError(t, err)

	require.Len(t, transactions, 1)
	assert.Equal(t, "trans_ok", transactions[0].Reference)
}

func TestFetchTransactions_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger())
	_, err := client.FetchTransactions(context.Background(), cred, day(2025, time.June, 2), day(2025, time.June, 2))
	assert.Error(t, err)
}

func TestFetchTransactions_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, time.Second, testLogger())
	_, err := client.FetchTransactions(context.Background(), cred, day(2025, time.June, 2), day(2025, time.June, 2))
	assert.Error(t, err)
}
