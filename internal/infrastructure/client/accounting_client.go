package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/shopspring/decimal"
)

// AccountingClient talks to the accounting service over HTTP
type AccountingClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAccountingClient creates an accounting service client
func NewAccountingClient(baseURL string, timeout time.Duration) *AccountingClient {
	return &AccountingClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ port.AccountingAdapter = (*AccountingClient)(nil)

func (c *AccountingClient) CreateInvoice(ctx context.Context, draft *port.InvoiceDraft) (*port.InvoiceResult, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/invoices", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("accounting service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("invoice creation returned %d", resp.StatusCode)
	}

	var result port.InvoiceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode invoice response: %w", err)
	}
	if result.InvoiceNumber == "" {
		return nil, fmt.Errorf("accounting returned an invoice without a number")
	}
	return &result, nil
}

func (c *AccountingClient) ConfirmPaymentRecord(ctx context.Context, paymentRecordID string) error {
	endpoint := fmt.Sprintf("%s/api/payment-records/%s/confirm",
		c.baseURL, url.PathEscape(paymentRecordID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("accounting service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("payment record confirmation returned %d", resp.StatusCode)
	}
	return nil
}

func (c *AccountingClient) GetTotalPaid(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/api/invoices/%s/total-paid",
		c.baseURL, url.PathEscape(invoiceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("accounting service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("total paid lookup returned %d", resp.StatusCode)
	}

	var body struct {
		TotalPaid decimal.Decimal `json:"total_paid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode total paid response: %w", err)
	}
	return body.TotalPaid, nil
}
