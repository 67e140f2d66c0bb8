package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Order is the gateway's order object. It lives only for the duration of a
// checkout attempt and is never persisted locally.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderCreator is the slice of the payment gateway the checkout flow needs.
// Tests substitute a stub.
type OrderCreator interface {
	CreateOrder(amount int64, currency, receipt string) (*Order, error)
}

// Client talks to the payment gateway's REST API.
type Client struct {
	http  *resty.Client
	keyID string
}

// NewClient builds a gateway client. The timeout bounds every request;
// order creation has no local side effects, so a timed-out call is safe to
// retry with a fresh order.
func NewClient(baseURL, keyID, secret string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(keyID, secret)

	return &Client{http: httpClient, keyID: keyID}
}

// KeyID returns the public key id the browser checkout widget needs.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder asks the gateway for a new order of the given amount.
func (c *Client) CreateOrder(amount int64, currency, receipt string) (*Order, error) {
	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("gateway order request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway order creation failed: %s", resp.String())
	}

	var order Order
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("invalid gateway order response: %w", err)
	}

	return &order, nil
}
