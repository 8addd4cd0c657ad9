// Package ynab submits canonical transactions to the YNAB API.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ynabimport/ynabimport/internal/model"
)

// Config represents the configuration for the YNAB API client.
type Config struct {
	APIURL      string
	AccessToken string
	Timeout     time.Duration // Default: 30 seconds
	HTTPClient  *http.Client  // optional base client, used for its transport
}

// Client is a YNAB API client authenticated with a personal access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new YNAB API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx := context.Background()
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.AccessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.APIURL, "/"),
	}
}

// CreateTransactions creates txns in a budget. Any failure comes back as a
// *SubmitError holding the whole batch; nothing is retried.
func (c *Client) CreateTransactions(ctx context.Context, budgetID string, txns []model.Transaction) (*SaveResult, error) {
	if len(txns) == 0 {
		return nil, ErrEmptyBatch
	}

	result, err := c.createTransactions(ctx, budgetID, txns)
	if err != nil {
		return nil, &SubmitError{BudgetID: budgetID, Transactions: txns, Err: err}
	}
	return result, nil
}

func (c *Client) createTransactions(ctx context.Context, budgetID string, txns []model.Transaction) (*SaveResult, error) {
	body := SaveTransactionsRequest{Transactions: make([]SaveTransaction, len(txns))}
	for i, txn := range txns {
		body.Transactions[i] = NewSaveTransaction(txn)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/budgets/%s/transactions", c.baseURL, url.PathEscape(budgetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp)
	}

	var saveResp SaveTransactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&saveResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &saveResp.Data, nil
}

// parseError turns an error response into an *APIError.
func parseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Name == "" {
		apiErr.Name = http.StatusText(resp.StatusCode)
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.ErrorDetail = errResp.Error
	return apiErr
}
