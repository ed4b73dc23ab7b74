package akahu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"rentwatch/internal/domain/bank"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client fetches transactions from the Akahu API and normalizes them into
// bank.Transaction values. Raw payloads stay inside this package.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// transactionItem mirrors one element of the Akahu transactions response.
type transactionItem struct {
	ID          string      `json:"_id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

type transactionsResponse struct {
	Items []transactionItem `json:"items"`
}

// FetchTransactions lists the transactions visible for the credential in
// the inclusive [from, to] date range, preserving feed order.
func (c *Client) FetchTransactions(ctx context.Context, cred bank.Credential, from, to time.Time) ([]bank.Transaction, error) {
	endpoint := fmt.Sprintf("%s/transactions?%s", c.baseURL, url.Values{
		"start": {from.Format("2006-01-02")},
		"end":   {to.Format("2006-01-02")},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactions request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.UserToken)
	req.Header.Set("X-Akahu-ID", cred.AppToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transactions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transactions request returned status %d", resp.StatusCode)
	}

	var payload transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode transactions response: %w", err)
	}

	transactions := make([]bank.Transaction, 0, len(payload.Items))
	for _, item := range payload.Items {
		tx, err := normalize(item)
		if err != nil {
			// A malformed line item should not hide the rest of the feed.
			c.logger.WithError(err).WithField("transaction_id", item.ID).
				Warn("Skipping malformed bank transaction")
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func normalize(item transactionItem) (bank.Transaction, error) {
	amount, err := decimal.NewFromString(item.Amount.String())
	if err != nil {
		return bank.Transaction{}, fmt.Errorf("invalid amount %q: %w", item.Amount, err)
	}

	date, err := parseDate(item.Date)
	if err != nil {
		return bank.Transaction{}, fmt.Errorf("invalid date %q: %w", item.Date, err)
	}

	return bank.Transaction{
		Amount:      amount,
		Date:        date,
		Description: item.Description,
		Reference:   item.ID,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	var err error
	for _, format := range []string{time.RFC3339, "2006-01-02"} {
		var t time.Time
		if t, err = time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
