package payplug

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Client calls the PayPlug hosted-payment REST API.
type Client struct {
	log        *slog.Logger
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

func New(log *slog.Logger, apiURL, secretKey string) *Client {
	return &Client{
		log:        log,
		apiURL:     apiURL,
		secretKey:  secretKey,
		httpClient: &http.Client{},
	}
}

// CreatePaymentRequest is the provider-side payment creation payload.
type CreatePaymentRequest struct {
	Amount          int64             `json:"amount"` // minor units (cents)
	Currency        string            `json:"currency"`
	NotificationURL string            `json:"notification_url"`
	HostedPayment   HostedPayment     `json:"hosted_payment"`
	Billing         Contact           `json:"billing"`
	Shipping        *Contact          `json:"shipping,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Force3DS        bool              `json:"force_3ds"`
	SaveCard        bool              `json:"save_card"`
	AllowSaveCard   bool              `json:"allow_save_card"`
}

type HostedPayment struct {
	PaymentURL string `json:"payment_url,omitempty"`
	ReturnURL  string `json:"return_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

type Contact struct {
	Email        string   `json:"email,omitempty"`
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	DeliveryType string   `json:"delivery_type,omitempty"`
	Address      *Address `json:"address,omitempty"`
}

type Address struct {
	StreetAddress string `json:"street_address,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
}

// Payment is the provider's payment object. Raw keeps the untouched body so
// read-through endpoints can return it verbatim.
type Payment struct {
	ID            string            `json:"id"`
	IsPaid        bool              `json:"is_paid"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	HostedPayment HostedPayment     `json:"hosted_payment"`
	Billing       *Contact          `json:"billing,omitempty"`
	Shipping      *Contact          `json:"shipping,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// ProviderError carries the provider's own error message and HTTP status,
// which are propagated to the storefront caller unchanged.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payplug: %s (status %d)", e.Message, e.StatusCode)
}

// CreatePayment creates a hosted payment.
func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Payment, error) {
	const op = "payplug.CreatePayment"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	c.setHeaders(httpReq)

	return c.do(httpReq, op)
}

// GetPayment retrieves a payment by its provider-assigned id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	const op = "payplug.GetPayment"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	c.setHeaders(httpReq)

	return c.do(httpReq, op)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(req *http.Request, op string) (*Payment, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("payplug returned an error",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    providerMessage(raw),
		}
	}

	var payment Payment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	payment.Raw = raw
	return &payment, nil
}

// providerMessage extracts the provider's error text, falling back to a
// generic message when the error shape can't be parsed.
func providerMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "payment processing error"
}
