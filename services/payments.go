package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultPaymentsURL = "https://api.razorpay.com/v1/payments"

// RawPayment is one payment record as reported by the payment source.
// Amounts are in minor currency units (paise); created_at is unix seconds.
type RawPayment struct {
	ID          string            `json:"id"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Method      string            `json:"method"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	Notes       map[string]string `json:"notes,omitempty"`
	CreatedAt   int64             `json:"created_at"`
}

type paymentListResponse struct {
	Count int          `json:"count"`
	Items []RawPayment `json:"items"`
}

// PaymentsClient fetches payment records from the payment source API using
// basic-auth service credentials.
type PaymentsClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewPaymentsClient builds a client for the payment source. An empty
// baseURL falls back to the hosted API endpoint.
func NewPaymentsClient(baseURL, keyID, keySecret string) *PaymentsClient {
	if baseURL == "" {
		baseURL = defaultPaymentsURL
	}
	return &PaymentsClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithCredentials returns a copy of the client authenticating with the
// given key pair instead of the service credentials. Used when a user has
// connected their own payment-source account.
func (p *PaymentsClient) WithCredentials(keyID, keySecret string) *PaymentsClient {
	clone := *p
	clone.keyID = keyID
	clone.keySecret = keySecret
	return &clone
}

// FetchPayments retrieves up to 100 payments in the [from, to] unix-second
// window. Unlike place lookups, a failure here aborts the whole import.
func (p *PaymentsClient) FetchPayments(from, to int64) ([]RawPayment, error) {
	params := url.Values{}
	params.Set("from", strconv.FormatInt(from, 10))
	params.Set("to", strconv.FormatInt(to, 10))
	params.Set("count", "100")

	req, err := http.NewRequest("GET", p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating payment source request: %w", err)
	}
	req.SetBasicAuth(p.keyID, p.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling payment source API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment source API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response paymentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding payment source response: %w", err)
	}

	return response.Items, nil
}

// DemoPayments is the fixed sample set substituted when the payment source
// reports an empty window, so the pipeline stays exercisable without live
// credentials.
func DemoPayments(now time.Time) []RawPayment {
	return []RawPayment{
		{
			ID:          "pay_demo1",
			Amount:      150000,
			Currency:    "INR",
			Method:      "card",
			Status:      "captured",
			Description: "Starbucks Coffee",
			CreatedAt:   now.Add(-2 * 24 * time.Hour).Unix(),
		},
		{
			ID:          "pay_demo2",
			Amount:      50000,
			Currency:    "INR",
			Method:      "upi",
			Status:      "captured",
			Description: "Big Bazaar",
			CreatedAt:   now.Add(-5 * 24 * time.Hour).Unix(),
		},
		{
			ID:          "pay_demo3",
			Amount:      200000,
			Currency:    "INR",
			Method:      "netbanking",
			Status:      "captured",
			Description: "Apollo Pharmacy",
			CreatedAt:   now.Add(-10 * 24 * time.Hour).Unix(),
		},
	}
}
